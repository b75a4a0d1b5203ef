package display

import (
	"github.com/arthur-debert/packorder/pkg/catalog"
	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/types"
)

// PackView is the display form of a pack
type PackView struct {
	Position     int    `yaml:"position,omitempty" json:"position,omitempty"`
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Description  string `yaml:"description,omitempty" json:"description,omitempty"`
	Format       int    `yaml:"format" json:"format"`
	Directory    bool   `yaml:"directory,omitempty" json:"directory,omitempty"`
	Icon         bool   `yaml:"icon,omitempty" json:"icon,omitempty"`
	Incompatible bool   `yaml:"incompatible,omitempty" json:"incompatible,omitempty"`
}

// ProblemView is the display form of a refused entry
type ProblemView struct {
	Name  string `yaml:"name" json:"name"`
	Code  string `yaml:"code" json:"code"`
	Error string `yaml:"error" json:"error"`
}

// ListView is everything the list command shows
type ListView struct {
	Enabled  []PackView    `yaml:"enabled" json:"enabled"`
	Disabled []PackView    `yaml:"disabled" json:"disabled"`
	Invalid  []ProblemView `yaml:"invalid,omitempty" json:"invalid,omitempty"`
}

// NewListView builds a view from the two partitions and the scan problems.
// Enabled packs are numbered from 1, highest precedence first.
func NewListView(enabled, disabled []types.ResourcePack, problems []catalog.Problem) ListView {
	view := ListView{
		Enabled:  make([]PackView, 0, len(enabled)),
		Disabled: make([]PackView, 0, len(disabled)),
	}
	for i, p := range enabled {
		pv := packView(p)
		pv.Position = i + 1
		view.Enabled = append(view.Enabled, pv)
	}
	for _, p := range disabled {
		view.Disabled = append(view.Disabled, packView(p))
	}
	for _, problem := range problems {
		view.Invalid = append(view.Invalid, ProblemView{
			Name:  problem.Name,
			Code:  string(errors.GetErrorCode(problem.Err)),
			Error: problem.Err.Error(),
		})
	}
	return view
}

func packView(p types.ResourcePack) PackView {
	return PackView{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Format:       p.FormatVersion,
		Directory:    p.IsDir,
		Icon:         p.HasIcon,
		Incompatible: p.Incompatible,
	}
}
