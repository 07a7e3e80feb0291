package view

// Tab names one of the mutually exclusive top-level views of the page
type Tab string

const (
	TabMenu    Tab = "menu"
	TabCart    Tab = "cart"
	TabOrders  Tab = "orders"
	TabAccount Tab = "account"
)

// DefaultTab is active when a view is opened
const DefaultTab = TabMenu

// Tabs lists every tab in navigation order
var Tabs = []Tab{TabMenu, TabCart, TabOrders, TabAccount}

var tabTitles = map[Tab]string{
	TabMenu:    "Menu",
	TabCart:    "Cart & Order",
	TabOrders:  "Order History",
	TabAccount: "Account",
}

// ParseTab maps a tab name to a known Tab
func ParseTab(name string) (Tab, bool) {
	t := Tab(name)
	_, ok := tabTitles[t]
	return t, ok
}

// Title returns the navigation label
func (t Tab) Title() string {
	return tabTitles[t]
}
