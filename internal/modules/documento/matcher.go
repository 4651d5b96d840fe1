package documento

import (
	"strings"

	"deudasacero/internal/domain"
)

// BuscarItemChecklist finds the checklist item a fresh upload should
// satisfy: the first item, in checklist order, whose name contains the
// document type as a case-insensitive substring and has no linked
// document yet. It is deliberately a fuzzy first-match heuristic, not a
// key join; a type matching nothing leaves the checklist untouched.
func BuscarItemChecklist(tipo string, items []domain.ChecklistItem) *domain.ChecklistItem {
	needle := strings.ToLower(strings.TrimSpace(tipo))
	if needle == "" {
		return nil
	}
	for i := range items {
		if items[i].DocumentoVinculado != nil {
			continue
		}
		if strings.Contains(strings.ToLower(items[i].Nombre), needle) {
			return &items[i]
		}
	}
	return nil
}
