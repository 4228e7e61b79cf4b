// Package icons maps achievement icon names to the static assets served by
// the web frontend. The catalog stores only the name; resolution happens at
// read time so unknown names degrade to a sensible default instead of a
// broken image.
package icons

var assets = map[string]string{
	"droplet": "/assets/icons/droplet.svg",
	"waves":   "/assets/icons/waves.svg",
	"map-pin": "/assets/icons/map-pin.svg",
	"star":    "/assets/icons/star.svg",
	"trophy":  "/assets/icons/trophy.svg",
	"medal":   "/assets/icons/medal.svg",
	"sprout":  "/assets/icons/sprout.svg",
}

const defaultIcon = "droplet"

// Resolve returns the asset path for an icon name, falling back to the
// droplet icon for names not in the map.
func Resolve(name string) string {
	if path, ok := assets[name]; ok {
		return path
	}
	return assets[defaultIcon]
}
