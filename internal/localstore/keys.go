package localstore

const (
	KeySelected       = "hn_selected_categories"
	KeyBookmarks      = "hn_bookmarks"
	KeyBookmarkItems  = "hn_bookmark_items"
	KeySearchQuery    = "hn_search_q"
	KeyTopRowKickers  = "hn_top_row_kickers"
	KeyStoryCount     = "hn_story_count"
	KeyFrontReset     = "hn_frontpage_cache_reset"
	FrontCachePrefix  = "hn_frontpage_cache_v1:"
	SearchCachePrefix = "hn_search_cache_v1:"

	pagePrefix          = "hn_page_"
	bookmarksOnlyPrefix = "hn_bookmarksOnly_"
)

func PageKey(mode string) string          { return pagePrefix + mode }
func BookmarksOnlyKey(mode string) string { return bookmarksOnlyPrefix + mode }
