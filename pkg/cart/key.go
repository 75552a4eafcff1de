package cart

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/example/brewbuddy/pkg/models"
)

type mergeKey struct {
	ProductID  string                         `json:"p"`
	Size       *models.Size                   `json:"s,omitempty"`
	Selections []models.SelectedCustomization `json:"c"`
}

// MergeKey identifies lines that should be merged: same product, same size and
// the same customizations. Groups are ordered by id and options within a
// group by id, so selection order does not matter.
func MergeKey(productID string, size *models.Size, selections []models.SelectedCustomization) string {
	groups := cloneSelections(selections)
	for i := range groups {
		slices.SortFunc(groups[i].SelectedOptions, func(a, b models.CustomizationOption) int {
			return strings.Compare(a.ID, b.ID)
		})
	}
	slices.SortFunc(groups, func(a, b models.SelectedCustomization) int {
		return strings.Compare(a.CustomizationID, b.CustomizationID)
	})

	// marshalling plain structs of strings and decimals cannot fail
	data, _ := json.Marshal(mergeKey{ProductID: productID, Size: size, Selections: groups})
	return string(data)
}
