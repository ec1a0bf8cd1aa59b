package detection

import "strings"

// ParseSpeciesString splits a BirdNET label into scientific name, common name and
// species code. Labels come as "Scientific_Common" or "Scientific_Common_Code".
// A label without separators is returned as both names with an empty code.
func ParseSpeciesString(species string) (scientificName, commonName, speciesCode string) {
	parts := strings.SplitN(species, "_", 3)
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2]
	case 2:
		return parts[0], parts[1], ""
	default:
		return species, species, ""
	}
}
