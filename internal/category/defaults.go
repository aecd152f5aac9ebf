package category

import "github.com/ReyWins/happeningnow-news-core/internal/model"

// DefaultIDs is the edition shown before a reader picks categories.
var DefaultIDs = []string{"global", "business", "tech"}

// Defaults is the built-in category set. A categories file replaces it wholesale.
var Defaults = []model.Category{
	{
		ID:       "global",
		Label:    "Global Affairs",
		Keywords: []string{"election", "congress", "white house", "diplomacy", "foreign policy", "senate"},
		Domains:  []string{"apnews.com", "reuters.com", "politico.com", "thehill.com", "foreignpolicy.com", "rollcall.com", "c-span.org"},
	},
	{
		ID:       "business",
		Label:    "Business",
		Keywords: []string{"markets", "stocks", "earnings", "economy", "finance", "banking", "wall street"},
		Domains:  []string{"bloomberg.com", "wsj.com", "marketwatch.com", "barrons.com", "cnbc.com", "forbes.com", "fortune.com", "finance.yahoo.com"},
	},
	{
		ID:       "tech",
		Label:    "Technology",
		Keywords: []string{"technology", "tech", "ai", "software", "cloud", "startup", "semiconductor", "chip"},
		Domains:  []string{"theverge.com", "techcrunch.com", "wired.com", "arstechnica.com", "engadget.com", "zdnet.com", "venturebeat.com", "geekwire.com"},
	},
	{
		ID:       "cyber",
		Label:    "Cybersecurity",
		Keywords: []string{"cybersecurity", "breach", "ransomware", "malware", "hacking"},
		Domains:  []string{"bleepingcomputer.com", "krebsonsecurity.com", "thehackernews.com", "darkreading.com", "securityweek.com", "therecord.media", "cyberscoop.com"},
	},
	{
		ID:       "energy",
		Label:    "Energy",
		Keywords: []string{"energy", "oil", "gas", "power", "grid", "electricity", "utility"},
		Domains:  []string{"energy.gov", "eia.gov", "oilprice.com", "utilitydive.com", "powermag.com", "rigzone.com"},
	},
	{
		ID:       "science",
		Label:    "Science",
		Keywords: []string{"science", "research", "nasa", "space", "climate", "study"},
		Domains:  []string{"science.org", "scientificamerican.com", "space.com", "sciencenews.org", "livescience.com", "nasa.gov", "phys.org"},
	},
	{
		ID:       "health",
		Label:    "Health",
		Keywords: []string{"health", "medical", "hospital", "vaccine", "public health", "cdc"},
		Domains:  []string{"cdc.gov", "nih.gov", "statnews.com", "kff.org", "medscape.com", "healthline.com"},
	},
	{
		ID:       "sports",
		Label:    "Sports",
		Keywords: []string{"sports", "nfl", "nba", "mlb", "nhl", "soccer", "college"},
		Domains:  []string{"espn.com", "cbssports.com", "nbcsports.com", "foxsports.com", "si.com", "bleacherreport.com"},
	},
	{
		ID:       "weather",
		Label:    "Weather",
		Keywords: []string{"weather", "storm", "hurricane", "tornado", "forecast"},
		Domains:  []string{"weather.com", "weather.gov", "noaa.gov", "accuweather.com"},
	},
	{
		ID:       "entertainment",
		Label:    "Entertainment",
		Keywords: []string{"entertainment", "movie", "tv", "music", "celebrity", "hollywood"},
		Domains:  []string{"variety.com", "hollywoodreporter.com", "deadline.com", "rollingstone.com", "billboard.com", "vulture.com"},
	},
}
