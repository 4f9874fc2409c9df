// internal/domain/models/image.go
package models

// Image is a remotely hosted picture plus the crop origin used when
// rendering it. Width and Height are resolved by probing the URL.
type Image struct {
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	TopLeftX int    `json:"topLeftX"`
	TopLeftY int    `json:"topLeftY"`
}

// IsZero reports whether no image has been set.
func (i Image) IsZero() bool { return i.URL == "" }
