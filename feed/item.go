// Package feed holds the client-side model of a video feed: items, pages and the
// de-duplicating merge used when pages are accumulated into one ordered list.
package feed

import (
	"github.com/samber/mo"
)

// Counters are the denormalized interaction counts carried by every item.
type Counters struct {
	Likes    int `json:"likes"`
	Gifts    int `json:"gifts"`
	Shares   int `json:"shares"`
	Comments int `json:"comments"`
}

// Creator references the account that published an item.
type Creator struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Photo    string `json:"photo,omitempty"`
}

// Access describes the monetization state of an item.
type Access struct {
	Price     float64 `json:"price"`
	Paid      bool    `json:"paid"`
	Purchased bool    `json:"purchased"`
}

// Series links an item to an episode of a series.
type Series struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Episode int    `json:"episode"`
}

// Item is one playable video as held by the client.
type Item struct {
	ID       string            `json:"id"`
	MediaURI string            `json:"media_uri"`
	Title    string            `json:"title"`
	Counters Counters          `json:"counters"`
	Liked    bool              `json:"liked"`
	Creator  Creator           `json:"creator"`
	Access   Access            `json:"access"`
	Series   mo.Option[Series] `json:"series" jsonschema:"type=object"`
}

// Locked reports whether the item is paid content the user has not bought.
// Locked items are listed but never played.
func (i *Item) Locked() bool {
	return i.Access.Paid && !i.Access.Purchased
}

// Apply merges counters returned by an interaction endpoint into the item.
// Negative values mean "unknown" and leave the current count untouched.
func (i *Item) Apply(c Counters) {
	if c.Likes >= 0 {
		i.Counters.Likes = c.Likes
	}
	if c.Gifts >= 0 {
		i.Counters.Gifts = c.Gifts
	}
	if c.Shares >= 0 {
		i.Counters.Shares = c.Shares
	}
	if c.Comments >= 0 {
		i.Counters.Comments = c.Comments
	}
}

// Clone returns a copy that can be handed to readers without sharing mutable state.
func (i *Item) Clone() *Item {
	c := *i
	return &c
}
