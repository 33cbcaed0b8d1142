package catalog

// UploadKey identifies one required document of one item.
type UploadKey struct {
	ItemID   string
	Document string
}

// UploadStatus is the transfer state of a single document.
type UploadStatus struct {
	Uploaded bool
	URL      string
}

// UploadState maps (item, document) to its upload status. The catalog only reads it.
type UploadState map[UploadKey]UploadStatus

// IsUploaded reports whether the document has been transferred for the item.
func (s UploadState) IsUploaded(itemID, document string) bool {
	return s[UploadKey{ItemID: itemID, Document: document}].Uploaded
}

// Progress summarises item completion for an order.
type Progress struct {
	CompletedItems int     `json:"completed_items"`
	TotalItems     int     `json:"total_items"`
	Percent        float64 `json:"percent"`
}

// IsItemComplete reports whether every required document of the item is uploaded.
// An item without requirements is never complete.
func (c *Catalog) IsItemComplete(item Item, state UploadState) bool {
	required := c.RequiredDocuments(item)
	if len(required) == 0 {
		return false
	}
	for _, doc := range required {
		if !state.IsUploaded(item.ID, doc) {
			return false
		}
	}
	return true
}

// IsOrderComplete reports whether items is non-empty and every item is complete.
func (c *Catalog) IsOrderComplete(items []Item, state UploadState) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !c.IsItemComplete(item, state) {
			return false
		}
	}
	return true
}

// Progress counts complete items. Percent is 0 for an empty order.
func (c *Catalog) Progress(items []Item, state UploadState) Progress {
	p := Progress{TotalItems: len(items)}
	for _, item := range items {
		if c.IsItemComplete(item, state) {
			p.CompletedItems++
		}
	}
	if p.TotalItems > 0 {
		p.Percent = 100 * float64(p.CompletedItems) / float64(p.TotalItems)
	}
	return p
}
