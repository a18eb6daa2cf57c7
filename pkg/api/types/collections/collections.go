package collections

import (
	kdb "github.com/athena-research/athena/pkg/db"
	"github.com/athena-research/athena/pkg/utils/cmp"
	"github.com/athena-research/athena/pkg/utils/rfctime"
)

type Item struct {
	ItemId   string `json:"itemId"`
	ItemKind string `json:"itemKind"`
}

// Spec is the creation body of a collection.
type Spec struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// AddItemsRequest is the body of an append call.
type AddItemsRequest struct {
	Items []Item `json:"items"`
}

type Detail struct {
	Id        string          `json:"id"`
	Name      string          `json:"name"`
	Owner     string          `json:"owner"`
	Items     []Item          `json:"items"`
	CreatedAt rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt rfctime.RFC3339 `json:"updatedAt"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Id == o.Id &&
		d.Name == o.Name &&
		d.Owner == o.Owner &&
		cmp.SliceEq(d.Items, o.Items) &&
		d.CreatedAt.Equal(&o.CreatedAt) &&
		d.UpdatedAt.Equal(&o.UpdatedAt)
}

func ComposeDetail(c kdb.Collection) Detail {
	items := []Item{}
	for _, i := range c.Items {
		items = append(items, Item{ItemId: i.ItemId, ItemKind: i.ItemKind})
	}
	return Detail{
		Id:        c.Id,
		Name:      c.Name,
		Owner:     c.Owner,
		Items:     items,
		CreatedAt: rfctime.New(c.CreatedAt),
		UpdatedAt: rfctime.New(c.UpdatedAt),
	}
}
