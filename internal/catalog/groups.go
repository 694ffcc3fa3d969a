package catalog

import (
	"strings"

	"basket-service/internal/models"
)

// Display groups. Raw categories collapse into five shopper-facing groups
// plus the catch-all "Todos".
const (
	GroupTodos      = "Todos"
	GroupLaticinios = "Laticínios"
	GroupMercearia  = "Mercearia"
	GroupLimpeza    = "Limpeza"
	GroupCozinha    = "Itens de Cozinha"
	GroupPadaria    = "Padaria"
)

// Groups lists the display groups in menu order.
var Groups = []string{
	GroupTodos,
	GroupLaticinios,
	GroupMercearia,
	GroupLimpeza,
	GroupCozinha,
	GroupPadaria,
}

// GroupFor maps a raw category to its display group. Everything without a
// dedicated group is Mercearia.
func GroupFor(cat models.Category) string {
	switch cat {
	case models.CategoryLaticinio:
		return GroupLaticinios
	case models.CategoryLimpeza:
		return GroupLimpeza
	case models.CategoryCozinha:
		return GroupCozinha
	case models.CategoryPadaria:
		return GroupPadaria
	default:
		return GroupMercearia
	}
}

// Filter narrows a catalog listing.
type Filter struct {
	Group      string
	Query      string
	MinQuality int
	Limit      int
}

// DefaultListLimit bounds catalog pages when the caller doesn't ask for a
// specific size.
const DefaultListLimit = 40

// Apply returns the products matching the filter, in catalog order,
// truncated to the limit.
func (f Filter) Apply(products []models.Product) []models.Product {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))

	res := make([]models.Product, 0, limit)
	for _, p := range products {
		if f.Group != "" && f.Group != GroupTodos && GroupFor(p.Category) != f.Group {
			continue
		}
		if p.Quality < f.MinQuality {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Brand), q) {
			continue
		}
		res = append(res, p)
		if len(res) == limit {
			break
		}
	}
	return res
}
