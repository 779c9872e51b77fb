package presentation

import (
	"sort"
	"strings"

	"artframe-storefront/models"
	"artframe-storefront/utils"
)

// DefaultGuideBase is where the static guide illustrations are served from
const DefaultGuideBase = "/static/guides"

// GuideSet holds the static layout and material illustrations shown for prints
type GuideSet struct {
	Layouts   map[string]string `json:"layouts"` // landscape, portrait, square, circle
	Materials [3]string         `json:"materials"`
}

// NewGuideSet builds the guide URLs under base
func NewGuideSet(base string) GuideSet {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultGuideBase
	}
	return GuideSet{
		Layouts: map[string]string{
			"landscape": base + "/layout-landscape.jpg",
			"portrait":  base + "/layout-portrait.jpg",
			"square":    base + "/layout-square.jpg",
			"circle":    base + "/layout-circle.jpg",
		},
		Materials: [3]string{
			base + "/material-paper.jpg",
			base + "/material-frame-detail.jpg",
			base + "/packaging.jpg",
		},
	}
}

// layoutGuide picks the illustration for the layout tag, defaulting to portrait
func (g GuideSet) layoutGuide(layout string) (string, string) {
	key := utils.MapLayout(layout)
	if key == "" {
		key = "portrait"
	}
	if img := g.Layouts[key]; img != "" {
		return key, img
	}
	return "portrait", g.Layouts["portrait"]
}

// thumbnailList appends thumbnails, dropping empty and already seen images
type thumbnailList struct {
	items []models.Thumbnail
	seen  map[string]bool
}

func (l *thumbnailList) add(image string, kind models.ThumbnailKind, key string) {
	image = strings.TrimSpace(image)
	if image == "" || l.seen[image] {
		return
	}
	l.seen[image] = true
	l.items = append(l.items, models.Thumbnail{Image: image, Kind: kind, Key: key})
}

// Thumbnails builds the ordered, de-duplicated preview strip for a product:
// base image, frame colors White, Black, Brown, the gallery, acrylic light
// variants, and for standard prints the layout guide followed by the
// material illustrations (not for circular layouts)
func Thumbnails(family models.ProductFamily, d *models.ProductDescriptor, guides GuideSet) []models.Thumbnail {
	if d == nil {
		d = &models.ProductDescriptor{}
	}
	list := &thumbnailList{seen: make(map[string]bool)}

	list.add(d.BaseImage, models.ThumbBase, "")

	for _, color := range models.FrameColors {
		if img, ok := utils.LookupFold(d.FrameColorImages, color); ok {
			list.add(img, models.ThumbFrameColor, color)
		}
	}

	for _, img := range d.Gallery {
		list.add(img, models.ThumbGallery, "")
	}

	if family == models.FamilyAcrylicPanel {
		for _, label := range acrylicLabels(d.AcrylicImages) {
			list.add(d.AcrylicImages[label], models.ThumbLightVariant, utils.MapLightVariant(label))
		}
	}

	if family == models.FamilyStandardPrint {
		key, img := guides.layoutGuide(d.Layout)
		list.add(img, models.ThumbLayoutGuide, key)
		if key != "circle" {
			for _, m := range guides.Materials {
				list.add(m, models.ThumbMaterial, "")
			}
		}
	}

	return list.items
}

// acrylicLabels orders image labels as no light, warm light, rgb light,
// followed by unknown labels sorted
func acrylicLabels(images map[string]string) []string {
	rank := make(map[string]int, len(models.AcrylicVariants))
	for i, v := range models.AcrylicVariants {
		rank[v] = i
	}

	labels := make([]string, 0, len(images))
	for label := range images {
		labels = append(labels, label)
	}
	sort.SliceStable(labels, func(i, j int) bool {
		ri, knownI := rank[utils.MapLightVariant(labels[i])]
		rj, knownJ := rank[utils.MapLightVariant(labels[j])]
		switch {
		case knownI && knownJ && ri != rj:
			return ri < rj
		case knownI != knownJ:
			return knownI
		}
		return labels[i] < labels[j]
	})
	return labels
}
