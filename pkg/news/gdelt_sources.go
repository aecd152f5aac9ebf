package news

// preferredDomains boost the source score but do not gate the US-only filter.
var preferredDomains = []string{
	"apnews.com", "reuters.com", "axios.com", "npr.org", "pbs.org", "usatoday.com",
	"politico.com", "thehill.com", "c-span.org", "abcnews.go.com", "abcnews.com",
	"cbsnews.com", "nbcnews.com", "cnn.com", "foxnews.com", "newsweek.com", "time.com",
	"theatlantic.com", "newyorker.com", "foreignpolicy.com", "csmonitor.com",
	"semafor.com", "huffpost.com", "thedailybeast.com", "dailycaller.com",
	"breitbart.com", "theintercept.com", "motherjones.com", "thenation.com",
	"nationalreview.com", "newrepublic.com", "nymag.com", "newsmax.com", "rawstory.com",
	"reason.com", "salon.com", "vanityfair.com", "thewrap.com", "worldofreel.com",
	"showbiz411.com", "rollcall.com", "stateline.org", "bloomberg.com", "wsj.com",
	"marketwatch.com", "barrons.com", "forbes.com", "fortune.com", "businessinsider.com",
	"investopedia.com", "seekingalpha.com", "fool.com", "thestreet.com", "nasdaq.com",
	"finance.yahoo.com", "cnbc.com", "foxbusiness.com", "bizjournals.com", "bankrate.com",
	"kiplinger.com", "morningstar.com", "energy.gov", "eia.gov", "oilprice.com",
	"utilitydive.com", "renewableenergyworld.com", "greentechmedia.com", "powermag.com",
	"rigzone.com", "theverge.com", "cnet.com", "techcrunch.com", "wired.com",
	"arstechnica.com", "engadget.com", "gizmodo.com", "pcmag.com", "zdnet.com",
	"venturebeat.com", "thenextweb.com", "tomshardware.com", "tomsguide.com",
	"androidcentral.com", "9to5mac.com", "9to5google.com", "macrumors.com",
	"techradar.com", "bgr.com", "pcworld.com", "computerworld.com", "infoworld.com",
	"networkworld.com", "cio.com", "techrepublic.com", "digitaltrends.com",
	"geekwire.com", "siliconangle.com", "anandtech.com", "slashdot.org",
	"theinformation.com", "bleepingcomputer.com", "krebsonsecurity.com",
	"thehackernews.com", "darkreading.com", "securityweek.com", "therecord.media",
	"csoonline.com", "cyberscoop.com", "threatpost.com", "sciencemag.org",
	"scientificamerican.com", "space.com", "sciencenews.org", "sciencedaily.com",
	"livescience.com", "science.org", "nasa.gov", "phys.org", "cdc.gov", "nih.gov",
	"statnews.com", "healthline.com", "webmd.com", "medscape.com", "medicalnewstoday.com",
	"kff.org", "espn.com", "cbssports.com", "nbcsports.com", "foxsports.com", "si.com",
	"bleacherreport.com", "sports.yahoo.com", "weather.com", "weather.gov", "noaa.gov",
	"accuweather.com", "variety.com", "hollywoodreporter.com", "deadline.com", "ew.com",
	"rollingstone.com", "billboard.com", "people.com", "tmz.com", "eonline.com",
	"vulture.com", "nytimes.com", "nydailynews.com", "nypost.com", "washingtonpost.com",
	"latimes.com", "chicagotribune.com", "suntimes.com", "chicago.suntimes.com",
	"sfchronicle.com", "sfgate.com", "boston.com", "bostonglobe.com", "bostonherald.com",
	"dailynews.com", "dallasnews.com", "freep.com", "seattletimes.com", "miamiherald.com",
	"denverpost.com", "ajc.com", "startribune.com", "inquirer.com",
	"houstonchronicle.com", "stltoday.com", "cleveland.com", "azcentral.com",
	"sacbee.com", "kansas.com", "newsday.com", "post-gazette.com",
}

// usSourceHints are normalized source names known to be US outlets.
var usSourceHints = toSet([]string{
	"ap", "associatedpress", "abcnews", "cbsnews", "cspan", "c-span", "cnn", "nbcnews",
	"foxnews", "npr", "pbs", "usatoday", "politico", "thehill", "reuters", "newsweek",
	"time", "atlantic", "theatlantic", "newyorker", "foreignpolicy", "csmonitor",
	"bloomberg", "wsj", "wallstreetjournal", "marketwatch", "barrons", "forbes",
	"fortune", "businessinsider", "investopedia", "seekingalpha", "motleyfool",
	"thestreet", "nasdaq", "yahoofinance", "cnbc", "foxbusiness", "bizjournals",
	"bankrate", "kiplinger", "morningstar", "energygov", "eia", "oilprice", "utilitydive",
	"renewableenergyworld", "greentechmedia", "powermag", "rigzone", "theverge", "cnet",
	"techcrunch", "wired", "arstechnica", "engadget", "gizmodo", "pcmag", "zdnet",
	"venturebeat", "thenextweb", "tomshardware", "tomsguide", "androidcentral", "9to5mac",
	"9to5google", "macrumors", "techradar", "bgr", "pcworld", "computerworld",
	"infoworld", "networkworld", "cio", "techrepublic", "digitaltrends", "geekwire",
	"siliconangle", "anandtech", "slashdot", "theinformation", "bleepingcomputer",
	"krebsonsecurity", "thehackernews", "darkreading", "securityweek", "therecord",
	"csoonline", "cyberscoop", "threatpost", "sciencemag", "scientificamerican", "space",
	"sciencenews", "sciencedaily", "livescience", "science", "nasa", "phys", "cdc", "nih",
	"statnews", "healthline", "webmd", "medscape", "medicalnewstoday", "kff", "espn",
	"cbssports", "nbcsports", "foxsports", "sportsillustrated", "bleacherreport",
	"yahoosports", "weather", "noaa", "accuweather", "variety", "hollywoodreporter",
	"deadline", "entertainmentweekly", "ew", "rollingstone", "billboard", "people", "tmz",
	"eonline", "vulture", "showbiz411", "worldofreel", "nytimes", "newyorktimes",
	"washingtonpost", "latimes", "bostonglobe", "bostonherald", "boston",
	"chicagotribune", "suntimes", "sfchronicle", "sfgate", "dallasnews", "seattletimes",
	"miamiherald", "denverpost", "ajc", "startribune", "inquirer", "houstonchronicle",
	"stltoday", "cleveland", "azcentral", "sacbee", "kansas", "newsday", "postgazette",
	"motherjones", "thenation", "nationalreview", "breitbart", "newrepublic", "newyork",
	"nymag", "newsmax", "reason", "salon", "vanityfair", "thewrap", "dailybeast",
	"dailycaller", "mediaite", "rawstory", "stateline", "rollcall", "semafor",
	"huffingtonpost", "huffpost", "intercept", "theintercept", "crazydaysandnights",
	"freepress", "freep", "elnuevodia", "ladailynews", "nydailynews", "nypost",
})

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
