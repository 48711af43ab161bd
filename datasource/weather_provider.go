package datasource

// Sources holds the ordered tiers for every facet. The first entry of each
// slice is tried first.
type Sources struct {
	Current    []CurrentSource
	Forecast   []ForecastSource
	AirQuality []AirQualitySource
	Alerts     []AlertSource
	UV         []UVSource
	Search     []CitySearcher
}

// SourcesOf collects every facet interface that p implements
func SourcesOf(p interface{}) Sources {
	var s Sources
	if v, ok := p.(CurrentSource); ok {
		s.Current = append(s.Current, v)
	}
	if v, ok := p.(ForecastSource); ok {
		s.Forecast = append(s.Forecast, v)
	}
	if v, ok := p.(AirQualitySource); ok {
		s.AirQuality = append(s.AirQuality, v)
	}
	if v, ok := p.(AlertSource); ok {
		s.Alerts = append(s.Alerts, v)
	}
	if v, ok := p.(UVSource); ok {
		s.UV = append(s.UV, v)
	}
	if v, ok := p.(CitySearcher); ok {
		s.Search = append(s.Search, v)
	}
	return s
}

// Append adds the tiers of other after those of s
func (s Sources) Append(other Sources) Sources {
	return Sources{
		Current:    append(s.Current[:len(s.Current):len(s.Current)], other.Current...),
		Forecast:   append(s.Forecast[:len(s.Forecast):len(s.Forecast)], other.Forecast...),
		AirQuality: append(s.AirQuality[:len(s.AirQuality):len(s.AirQuality)], other.AirQuality...),
		Alerts:     append(s.Alerts[:len(s.Alerts):len(s.Alerts)], other.Alerts...),
		UV:         append(s.UV[:len(s.UV):len(s.UV)], other.UV...),
		Search:     append(s.Search[:len(s.Search):len(s.Search)], other.Search...),
	}
}

// Empty reports whether no facet has a source
func (s Sources) Empty() bool {
	return len(s.Current)+len(s.Forecast)+len(s.AirQuality)+len(s.Alerts)+len(s.UV)+len(s.Search) == 0
}
