package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

// #region types

// Criterion is the smallest rateable unit of the questionnaire.
// Indicators holds the descriptive text for score levels 1 through 5.
type Criterion struct {
	ID         string    `json:"id"` // e.g. "D1.3"
	Name       string    `json:"name"`
	Indicators [5]string `json:"indicators"`
}

// Dimension groups criteria under one regulatory theme/article.
type Dimension struct {
	ID          string      `json:"id"` // e.g. "D1"
	Name        string      `json:"name"`
	Article     string      `json:"article"`
	Description string      `json:"description"`
	Criteria    []Criterion `json:"criteria"`
}

// Catalog is the ordered, read-only dimension reference data for a session.
// Dimensions are never created or mutated by this side; they are fetched
// once from the backend (or loaded from the embedded default).
type Catalog struct {
	dimensions []Dimension
	byDim      map[string]int // dimension id → index in dimensions
	byCrit     map[string]string
}

// #endregion types

// #region constructor

// New validates the dimension list and builds lookup indexes.
// Every criterion id must carry its dimension's id as prefix ("D3.2" → "D3").
func New(dims []Dimension) (*Catalog, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("catalog: no dimensions")
	}
	c := &Catalog{
		dimensions: dims,
		byDim:      make(map[string]int, len(dims)),
		byCrit:     make(map[string]string),
	}
	for i, d := range dims {
		if d.ID == "" {
			return nil, fmt.Errorf("catalog: dimension %d has empty id", i)
		}
		if _, dup := c.byDim[d.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate dimension %s", d.ID)
		}
		c.byDim[d.ID] = i
		if len(d.Criteria) == 0 {
			return nil, fmt.Errorf("catalog: dimension %s has no criteria", d.ID)
		}
		for _, cr := range d.Criteria {
			if !strings.HasPrefix(cr.ID, d.ID+".") {
				return nil, fmt.Errorf("catalog: criterion %s does not belong to dimension %s", cr.ID, d.ID)
			}
			if _, dup := c.byCrit[cr.ID]; dup {
				return nil, fmt.Errorf("catalog: duplicate criterion %s", cr.ID)
			}
			c.byCrit[cr.ID] = d.ID
		}
	}
	return c, nil
}

// Parse builds a catalog from the backend's dimension list JSON.
func Parse(data []byte) (*Catalog, error) {
	var dims []Dimension
	if err := json.Unmarshal(data, &dims); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(dims)
}

// #endregion constructor

// #region lookup

// Dimensions returns the ordered dimension list.
func (c *Catalog) Dimensions() []Dimension {
	return c.dimensions
}

// Len returns the number of dimensions.
func (c *Catalog) Len() int {
	return len(c.dimensions)
}

// Dimension returns the dimension with the given id.
func (c *Catalog) Dimension(id string) (Dimension, bool) {
	i, ok := c.byDim[id]
	if !ok {
		return Dimension{}, false
	}
	return c.dimensions[i], true
}

// DimensionAt returns the dimension at declaration-order index i.
func (c *Catalog) DimensionAt(i int) (Dimension, bool) {
	if i < 0 || i >= len(c.dimensions) {
		return Dimension{}, false
	}
	return c.dimensions[i], true
}

// DimensionIndex returns the declaration-order index of a dimension id.
func (c *Catalog) DimensionIndex(id string) (int, bool) {
	i, ok := c.byDim[id]
	return i, ok
}

// DimensionOf resolves a criterion id to its owning dimension id.
// A criterion belongs to exactly one dimension, derivable from its prefix.
func (c *Catalog) DimensionOf(criterionID string) (string, bool) {
	dimID, ok := c.byCrit[criterionID]
	return dimID, ok
}

// HasCriterion reports whether the criterion id exists in the catalog.
func (c *Catalog) HasCriterion(criterionID string) bool {
	_, ok := c.byCrit[criterionID]
	return ok
}

// Criterion returns the criterion with the given id.
func (c *Catalog) Criterion(criterionID string) (Criterion, bool) {
	dimID, ok := c.byCrit[criterionID]
	if !ok {
		return Criterion{}, false
	}
	dim := c.dimensions[c.byDim[dimID]]
	for _, cr := range dim.Criteria {
		if cr.ID == criterionID {
			return cr, true
		}
	}
	return Criterion{}, false
}

// #endregion lookup

// #region default

//go:embed catalog.json
var defaultCatalogJSON []byte

// Default returns the embedded six-dimension EU AI Act catalog.
// Used for offline runs and tests; the wizard normally fetches the
// catalog from the backend so both sides agree on criteria.
func Default() *Catalog {
	c, err := Parse(defaultCatalogJSON)
	if err != nil {
		// The embedded catalog is compiled in; a parse failure is a build defect.
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

// #endregion default
