package entity

// MenuIcon identificador cerrado de ícono; la capa de presentación lo resuelve a un ícono real.
type MenuIcon string

const (
	IconDashboard MenuIcon = "dashboard"
	IconCategory  MenuIcon = "category"
	IconSupplier  MenuIcon = "supplier"
	IconProduct   MenuIcon = "product"
	IconPurchase  MenuIcon = "purchase"
	IconSale      MenuIcon = "sale"
	IconStock     MenuIcon = "stock"
	IconShift     MenuIcon = "shift"
	IconUser      MenuIcon = "user"
	IconRole      MenuIcon = "role"
	IconReport    MenuIcon = "report"
)

// MenuItem entrada de navegación del dashboard.
type MenuItem struct {
	Path  string   `json:"path"`
	Title string   `json:"title"`
	Icon  MenuIcon `json:"icon"`
}

// MenuCatalog navegación completa en el orden en que se muestra.
var MenuCatalog = []MenuItem{
	{Path: "/dashboard", Title: "Dashboard", Icon: IconDashboard},
	{Path: "/categories", Title: "Kategori", Icon: IconCategory},
	{Path: "/suppliers", Title: "Supplier", Icon: IconSupplier},
	{Path: "/products", Title: "Produk", Icon: IconProduct},
	{Path: "/purchases", Title: "Pembelian", Icon: IconPurchase},
	{Path: "/sales", Title: "Penjualan", Icon: IconSale},
	{Path: "/stocks", Title: "Stok", Icon: IconStock},
	{Path: "/shifts", Title: "Shift Kasir", Icon: IconShift},
	{Path: "/users", Title: "Pengguna", Icon: IconUser},
	{Path: "/roles", Title: "Role", Icon: IconRole},
	{Path: "/reports", Title: "Laporan", Icon: IconReport},
}

// VisibleMenus filtra el catálogo con la lista de menús concedidos, conservando el orden del catálogo.
func VisibleMenus(granted []string) []MenuItem {
	set := make(map[string]struct{}, len(granted))
	for _, g := range granted {
		set[g] = struct{}{}
	}
	out := make([]MenuItem, 0, len(granted))
	for _, item := range MenuCatalog {
		if _, ok := set[item.Path]; ok {
			out = append(out, item)
		}
	}
	return out
}
