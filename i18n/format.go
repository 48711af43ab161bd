package i18n

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"weatherlux/models"
)

var locales = map[string]language.Tag{
	"es": language.MustParse("es-ES"),
	"en": language.AmericanEnglish,
	"fr": language.MustParse("fr-FR"),
	"de": language.MustParse("de-DE"),
}

// Locale returns the BCP 47 locale used for formatting in lang, en-US when
// the language is not supported.
func Locale(lang string) language.Tag {
	if tag, ok := locales[baseLanguage(lang)]; ok {
		return tag
	}
	return language.AmericanEnglish
}

// FormatTemperature converts a Celsius value to units and formats it with
// the locale's decimal separator, e.g. "21.5°C" or "21,5°C".
func FormatTemperature(celsius float64, units models.UnitSystem, lang string) string {
	p := message.NewPrinter(Locale(lang))
	return p.Sprintf("%.1f%s", ConvertTemperature(celsius, models.Metric, units), TemperatureLabel(units))
}

// FormatSpeed converts a m/s value to units and formats it like FormatTemperature
func FormatSpeed(mps float64, units models.UnitSystem, lang string) string {
	p := message.NewPrinter(Locale(lang))
	return p.Sprintf("%.1f %s", ConvertSpeed(mps, models.Metric, units), SpeedLabel(units))
}

// FormatClock renders t as HH:MM in the location's UTC offset (seconds)
func FormatClock(t time.Time, utcOffset int) string {
	return t.In(time.FixedZone("", utcOffset)).Format("15:04")
}

// FormatDay renders the localized weekday name of t
func FormatDay(t time.Time, utcOffset int, lang string) string {
	return Translate(t.In(time.FixedZone("", utcOffset)).Weekday().String(), lang)
}

var compass = [16]string{"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE", "S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW"}

// WindDirection maps degrees to one of 16 compass points
func WindDirection(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return compass[int(math.Round(deg/22.5))%16]
}

type aqiStatus struct {
	label string
	color string
}

var aqiStatuses = [5]aqiStatus{
	{"Excelente", "green"},
	{"Buena", "light-green"},
	{"Moderada", "yellow"},
	{"Mala", "orange"},
	{"Muy Mala", "red"},
}

// AirQualityLabel returns the label and colour for an AQI of 1..5.
// Values out of range clamp to the nearest band.
func AirQualityLabel(aqi int) (label, color string) {
	i := min(aqi-1, 4)
	if i < 0 {
		i = 0
	}
	return aqiStatuses[i].label, aqiStatuses[i].color
}

var conditionEmoji = map[int]string{
	200: "⛈️", 201: "⛈️", 202: "⛈️", 210: "🌩️", 211: "🌩️", 212: "🌩️", 221: "🌩️", 230: "⛈️", 231: "⛈️", 232: "⛈️",
	300: "🌦️", 301: "🌦️", 302: "🌦️", 310: "🌦️", 311: "🌦️", 312: "🌦️", 313: "🌦️", 314: "🌦️", 321: "🌦️",
	500: "🌧️", 501: "🌧️", 502: "⛈️", 503: "⛈️", 504: "⛈️", 511: "🌨️", 520: "🌦️", 521: "🌦️", 522: "🌧️", 531: "🌧️",
	600: "🌨️", 601: "❄️", 602: "❄️", 611: "🌨️", 612: "🌨️", 613: "🌨️", 615: "🌨️", 616: "🌨️", 620: "🌨️", 621: "❄️", 622: "❄️",
	701: "🌫️", 711: "💨", 721: "🌫️", 731: "💨", 741: "🌫️", 751: "💨", 761: "💨", 762: "🌋", 771: "💨", 781: "🌪️",
	802: "⛅", 803: "☁️", 804: "☁️",
}

// ConditionEmoji returns a glyph for a condition code
func ConditionEmoji(code int, isDay bool) string {
	switch code {
	case 801:
		if isDay {
			return "🌤️"
		}
		return "☁️"
	case 800:
	default:
		if e, ok := conditionEmoji[code]; ok {
			return e
		}
	}
	if isDay {
		return "☀️"
	}
	return "🌙"
}
