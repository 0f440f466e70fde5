package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/worldweaver/server/internal/storylet"
)

type qualityTemplate struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Min     int    `yaml:"min"`
	Max     int    `yaml:"max"`
	Initial int    `yaml:"initial"`
}

type requirementTemplate struct {
	Quality string `yaml:"quality"`
	Min     *int   `yaml:"min"`
	Max     *int   `yaml:"max"`
}

type effectTemplate struct {
	Quality string `yaml:"quality"`
	Change  int    `yaml:"change"`
}

type branchTemplate struct {
	ID           string                `yaml:"id"`
	Label        string                `yaml:"label"`
	Requirements []requirementTemplate `yaml:"requirements"`
	Effects      []effectTemplate      `yaml:"effects"`
}

type storyletTemplate struct {
	ID           string                `yaml:"id"`
	Title        string                `yaml:"title"`
	Body         string                `yaml:"body"`
	Category     string                `yaml:"category"`
	Requirements []requirementTemplate `yaml:"requirements"`
	Branches     []branchTemplate      `yaml:"branches"`
}

type storyletFile struct {
	Qualities []qualityTemplate  `yaml:"qualities"`
	Storylets []storyletTemplate `yaml:"storylets"`
}

// LoadStorylets reads the quality definitions and storylet content. The
// returned manager input preserves file order, which fixes availability
// listing order for good.
func LoadStorylets(path string) ([]storylet.Definition, []*storylet.Storylet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read storylets: %w", err)
	}
	var f storyletFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, nil, fmt.Errorf("parse storylets: %w", err)
	}

	defs := make([]storylet.Definition, 0, len(f.Qualities))
	for _, q := range f.Qualities {
		if q.ID == "" {
			return nil, nil, fmt.Errorf("quality with empty id")
		}
		defs = append(defs, storylet.Definition{
			ID:      q.ID,
			Name:    q.Name,
			Min:     q.Min,
			Max:     q.Max,
			Initial: q.Initial,
		})
	}

	nodes := make([]*storylet.Storylet, 0, len(f.Storylets))
	for _, st := range f.Storylets {
		if st.ID == "" {
			return nil, nil, fmt.Errorf("storylet with empty id")
		}
		node := &storylet.Storylet{
			ID:           st.ID,
			Title:        st.Title,
			BodyTemplate: st.Body,
			Category:     st.Category,
			Requirements: convertRequirements(st.Requirements),
		}
		for _, b := range st.Branches {
			if b.ID == "" {
				return nil, nil, fmt.Errorf("storylet %q: branch with empty id", st.ID)
			}
			branch := storylet.Branch{
				ID:           b.ID,
				Label:        b.Label,
				Requirements: convertRequirements(b.Requirements),
			}
			for _, e := range b.Effects {
				branch.Effects = append(branch.Effects, storylet.Effect{
					QualityID: e.Quality,
					Change:    e.Change,
				})
			}
			node.Branches = append(node.Branches, branch)
		}
		nodes = append(nodes, node)
	}
	return defs, nodes, nil
}

func convertRequirements(in []requirementTemplate) []storylet.Requirement {
	out := make([]storylet.Requirement, 0, len(in))
	for _, r := range in {
		out = append(out, storylet.Requirement{
			QualityID: r.Quality,
			Min:       r.Min,
			Max:       r.Max,
		})
	}
	return out
}
