package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

type phrasebook map[string]string

// translations maps language base -> English phrase -> localized phrase
var translations = map[string]phrasebook{
	"es": {
		"Weather Forecast":          "Pronóstico del Tiempo",
		"Hourly Forecast":           "Pronóstico por Horas",
		"7-Day Forecast":            "Pronóstico de 7 Días",
		"Today":                     "Hoy",
		"Temperature":               "Temperatura",
		"Feels Like":                "Sensación Térmica",
		"Precipitation":             "Precipitación",
		"Wind Speed":                "Velocidad del Viento",
		"Humidity":                  "Humedad",
		"Pressure":                  "Presión",
		"Air Quality Index":         "Índice de Calidad del Aire",
		"Sunrise":                   "Amanecer",
		"Sunset":                    "Atardecer",
		"Visibility":                "Visibilidad",
		"UV Index":                  "Índice UV",
		"Moon Phase":                "Fase Lunar",
		"Weather Alerts":            "Alertas Meteorológicas",
		"Offline data":              "Datos sin conexión",
		"Loading Weather Data":      "Cargando Datos Meteorológicos",
		"Getting latest conditions": "Obteniendo las condiciones más recientes",

		"clear sky":        "cielo despejado",
		"few clouds":       "pocas nubes",
		"scattered clouds": "nubes dispersas",
		"broken clouds":    "nubes rotas",
		"overcast clouds":  "nubes cubiertas",
		"shower rain":      "lluvia ligera",
		"rain":             "lluvia",
		"thunderstorm":     "tormenta",
		"snow":             "nieve",
		"mist":             "neblina",
		"fog":              "niebla",
		"haze":             "bruma",
		"dust":             "polvo",
		"sand":             "arena",
		"ash":              "ceniza",
		"squall":           "ráfaga",
		"tornado":          "tornado",

		"Clear":        "Despejado",
		"Clouds":       "Nublado",
		"Rain":         "Lluvia",
		"Drizzle":      "Llovizna",
		"Thunderstorm": "Tormenta",
		"Snow":         "Nieve",
		"Mist":         "Neblina",
		"Smoke":        "Humo",
		"Haze":         "Bruma",
		"Dust":         "Polvo",
		"Fog":          "Niebla",
		"Sand":         "Arena",
		"Ash":          "Ceniza",
		"Squall":       "Ráfaga",
		"Tornado":      "Tornado",

		"Monday":    "Lunes",
		"Tuesday":   "Martes",
		"Wednesday": "Miércoles",
		"Thursday":  "Jueves",
		"Friday":    "Viernes",
		"Saturday":  "Sábado",
		"Sunday":    "Domingo",

		"January":   "Enero",
		"February":  "Febrero",
		"March":     "Marzo",
		"April":     "Abril",
		"May":       "Mayo",
		"June":      "Junio",
		"July":      "Julio",
		"August":    "Agosto",
		"September": "Septiembre",
		"October":   "Octubre",
		"November":  "Noviembre",
		"December":  "Diciembre",
	},
	// English is the source language; the table only exists so "en" is a
	// known language.
	"en": {},
	"fr": {
		"Weather Forecast":          "Prévisions Météo",
		"Hourly Forecast":           "Prévisions Horaires",
		"7-Day Forecast":            "Prévisions 7 Jours",
		"Today":                     "Aujourd'hui",
		"Temperature":               "Température",
		"Feels Like":                "Ressenti",
		"Precipitation":             "Précipitation",
		"Wind Speed":                "Vitesse du Vent",
		"Humidity":                  "Humidité",
		"Pressure":                  "Pression",
		"Air Quality Index":         "Indice de Qualité de l'Air",
		"Sunrise":                   "Lever du Soleil",
		"Sunset":                    "Coucher du Soleil",
		"Visibility":                "Visibilité",
		"UV Index":                  "Indice UV",
		"Moon Phase":                "Phase Lunaire",
		"Weather Alerts":            "Alertes Météo",
		"Offline data":              "Données hors ligne",
		"Loading Weather Data":      "Chargement des Données Météo",
		"Getting latest conditions": "Obtention des dernières conditions",

		"Clear":        "Clair",
		"Clouds":       "Nuageux",
		"Rain":         "Pluie",
		"Snow":         "Neige",
		"Thunderstorm": "Orage",
	},
	"de": {
		"Weather Forecast":          "Wettervorhersage",
		"Hourly Forecast":           "Stündliche Vorhersage",
		"7-Day Forecast":            "7-Tage Vorhersage",
		"Today":                     "Heute",
		"Temperature":               "Temperatur",
		"Feels Like":                "Gefühlt",
		"Precipitation":             "Niederschlag",
		"Wind Speed":                "Windgeschwindigkeit",
		"Humidity":                  "Luftfeuchtigkeit",
		"Pressure":                  "Druck",
		"Air Quality Index":         "Luftqualitätsindex",
		"Sunrise":                   "Sonnenaufgang",
		"Sunset":                    "Sonnenuntergang",
		"Visibility":                "Sichtweite",
		"UV Index":                  "UV-Index",
		"Moon Phase":                "Mondphase",
		"Weather Alerts":            "Wetterwarnungen",
		"Offline data":              "Offline-Daten",
		"Loading Weather Data":      "Wetterdaten Laden",
		"Getting latest conditions": "Neueste Bedingungen abrufen",

		"Clear":        "Klar",
		"Clouds":       "Bewölkt",
		"Rain":         "Regen",
		"Snow":         "Schnee",
		"Thunderstorm": "Gewitter",
	},
}

// baseLanguage reduces a code like "es-MX" or "de_AT" to its base subtag.
// Unparseable codes come back lowercased and unchanged.
func baseLanguage(code string) string {
	code = strings.TrimSpace(code)
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return strings.ToLower(code)
	}
	base, _ := tag.Base()
	return base.String()
}

// Translate returns the localized form of phrase. Unknown languages and
// unknown phrases return phrase unchanged.
func Translate(phrase, lang string) string {
	book, ok := translations[baseLanguage(lang)]
	if !ok {
		return phrase
	}
	if s, ok := book[phrase]; ok && s != "" {
		return s
	}
	return phrase
}

// Supported reports whether lang has a translation table
func Supported(lang string) bool {
	_, ok := translations[baseLanguage(lang)]
	return ok
}
