package brand

import "strings"

// BestLogoURL picks the logo best suited to a small avatar. Icon and symbol
// marks beat full wordmarks, which beat anything else; within the chosen
// entry SVG beats PNG, which beats any other format. Entries without a usable
// source are skipped. Returns "" when nothing qualifies.
func BestLogoURL(b *Brand) string {
	if b == nil {
		return ""
	}
	for _, rank := range []int{0, 1, 2} {
		for _, logo := range b.Logos {
			if logoRank(logo.Type) != rank {
				continue
			}
			if src := bestFormat(logo.Formats); src != "" {
				return src
			}
		}
	}
	return ""
}

func logoRank(typ string) int {
	switch strings.ToLower(typ) {
	case "icon", "symbol":
		return 0
	case "logo":
		return 1
	default:
		return 2
	}
}

func bestFormat(formats []LogoFormat) string {
	for _, want := range []string{"svg", "png"} {
		for _, f := range formats {
			if strings.EqualFold(f.Format, want) && f.Src != "" {
				return f.Src
			}
		}
	}
	for _, f := range formats {
		if f.Src != "" {
			return f.Src
		}
	}
	return ""
}
