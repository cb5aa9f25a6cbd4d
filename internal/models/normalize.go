package models

// RawItem carries every field either legacy listing payload may use: the flat
// eBay-style shape (title/galleryURL/viewItemURL/currentPrice) and the nested
// catalog shape (name/price/images/detailUrl). Flat fields win when both
// shapes are present; nested fields only fill gaps.
type RawItem struct {
	Title        string   `json:"title"`
	Name         string   `json:"name"`
	CurrentPrice string   `json:"currentPrice"`
	Price        string   `json:"price"`
	Condition    string   `json:"condition"`
	Location     string   `json:"location"`
	GalleryURL   string   `json:"galleryURL"`
	Images       []string `json:"images"`
	ViewItemURL  string   `json:"viewItemURL"`
	DetailURL    string   `json:"detailUrl"`
}

// Product normalizes the raw item into the canonical shape. The second return
// is false when the item has no usable title and must be skipped.
func (r RawItem) Product() (Product, bool) {
	title := firstNonEmpty(r.Title, r.Name)
	if title == "" {
		return Product{}, false
	}

	price := firstNonEmpty(r.CurrentPrice, r.Price)
	if price == "" || price == "N/A" {
		price = PriceOnRequest
	}

	image := ImageRef{Primary: r.GalleryURL}
	if image.Primary == "" && len(r.Images) > 0 {
		image.Primary = r.Images[0]
		image.Alternates = r.Images[1:]
	} else if len(r.Images) > 0 {
		image.Alternates = r.Images
	}

	return Product{
		Title:     title,
		Price:     price,
		Condition: firstNonEmpty(r.Condition, "Used"),
		Location:  firstNonEmpty(r.Location, "Unknown"),
		Image:     image,
		DetailURL: firstNonEmpty(r.ViewItemURL, r.DetailURL, "#"),
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
