package ingest

// Dos formas de puntuar una publicación. No son intercambiables: cada análisis usa la suya.

const (
	// las impresiones se escalan antes de ponderarlas
	ImpressionScale = 1000.0
	// bonus por cada dimensión (likes, comentarios, impresiones) distinta de cero
	DimensionBonus = 0.5
)

type Weights struct {
	Impressions float64 `json:"impressions"`
	Comments    float64 `json:"comments"`
	Likes       float64 `json:"likes"`
}

type PlatformWeights map[string]Weights

func DefaultPlatformWeights() PlatformWeights {
	return PlatformWeights{
		"facebook":  {Impressions: 0.2, Comments: 0.5, Likes: 0.3},
		"instagram": {Impressions: 0.2, Comments: 0.4, Likes: 0.4},
		"linkedin":  {Impressions: 0.3, Comments: 0.4, Likes: 0.3},
		"twitter":   {Impressions: 0.3, Comments: 0.3, Likes: 0.4},
	}
}

// Merge devuelve una copia con los pesos de over sustituyendo a los de w.
func (w PlatformWeights) Merge(over map[string]Weights) PlatformWeights {
	out := make(PlatformWeights, len(w)+len(over))
	for k, v := range w {
		out[k] = v
	}
	for k, v := range over {
		out[NormPlatform(k)] = v
	}
	return out
}

// SimpleEngagement suma comentarios, impresiones, compartidos y clics/tasa.
func SimpleEngagement(p Post) float64 {
	return p.Comments + p.Impressions + p.Shares + p.Clicks
}

// WeightedEngagement pondera por plataforma; una plataforma desconocida solo suma el bonus.
func WeightedEngagement(p Post, weights PlatformWeights) float64 {
	score := 0.0
	if w, ok := weights[p.Platform]; ok {
		score = w.Impressions*(p.Impressions/ImpressionScale) +
			w.Comments*p.Comments +
			w.Likes*p.Likes
	}
	for _, v := range []float64{p.Likes, p.Comments, p.Impressions} {
		if v != 0 {
			score += DimensionBonus
		}
	}
	return score
}
