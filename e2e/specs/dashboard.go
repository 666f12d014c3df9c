package specs

import (
	"github.com/gravitational/hrmtest/e2e/framework"
	"github.com/gravitational/hrmtest/lib/config"

	"github.com/gravitational/trace"
)

// SidebarSearch types the configured menu entry into the sidebar search
// and expects the entry to remain visible
func SidebarSearch(s *framework.Session) error {
	item := s.Settings().Common.SearchItem
	if item == "" {
		return trace.NotFound("search item is not configured, set %v", config.SearchItem)
	}
	d := s.UI.Dashboard()
	if err := d.Search(item); err != nil {
		return trace.Wrap(err)
	}
	if !d.HasMenuItem(item) {
		return trace.Wrap(s.Page().Fail("menu has no entry %q", item))
	}
	return nil
}
