package fielddiff

import (
	"context"
	"strings"

	"github.com/dalemusser/skillmatch/internal/app/system/imageprobe"
	"github.com/dalemusser/skillmatch/internal/domain/models"
)

// InvalidImageURL is shown when an image URL cannot be resolved.
const InvalidImageURL = "Invalid Image URL"

// Image is an image field keyed by URL. Before the call is built the URL
// is probed for its dimensions; the saved value carries them with the crop
// origin reset to 0,0. A probe failure becomes an inline error and the
// previous image stays in effect. Clearing the URL saves an empty image
// without probing.
func Image[T any](name string, get func(T) models.Image, prober imageprobe.Prober, submit func(context.Context, models.Image) error) Field[T] {
	return Field[T]{
		Name: name,
		Changed: func(s, f T) bool {
			return strings.TrimSpace(get(s).URL) != strings.TrimSpace(get(f).URL)
		},
		Prepare: func(ctx context.Context, form T) (Call, error) {
			img, err := ResolveImage(ctx, prober, get(form).URL)
			if err != nil {
				return nil, err
			}
			return func(ctx context.Context) error { return submit(ctx, img) }, nil
		},
	}
}

// ResolveImage probes rawURL and returns the image value to save.
func ResolveImage(ctx context.Context, prober imageprobe.Prober, rawURL string) (models.Image, error) {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return models.Image{}, nil
	}
	dim, err := prober.Probe(ctx, u)
	if err != nil {
		return models.Image{}, &Invalid{Message: InvalidImageURL, Err: err}
	}
	return models.Image{URL: u, Width: dim.Width, Height: dim.Height, TopLeftX: 0, TopLeftY: 0}, nil
}
