package weatherapi

// conditionCodes maps WeatherAPI.com condition codes to OpenWeatherMap ids
var conditionCodes = map[int]int{
	1000: 800, // sunny / clear
	1003: 802, // partly cloudy
	1006: 803, // cloudy
	1009: 804, // overcast
	1030: 701, // mist
	1063: 500,
	1066: 600,
	1069: 611,
	1072: 300,
	1087: 210,
	1114: 601,
	1117: 602,
	1135: 741, // fog
	1147: 741,
	1150: 300,
	1153: 300,
	1168: 301,
	1171: 302,
	1180: 500,
	1183: 500,
	1186: 501,
	1189: 501,
	1192: 502,
	1195: 502,
	1198: 511,
	1201: 511,
	1204: 611,
	1207: 611,
	1210: 600,
	1213: 600,
	1216: 601,
	1219: 601,
	1222: 602,
	1225: 602,
	1237: 611,
	1240: 520,
	1243: 521,
	1246: 522,
	1249: 612,
	1252: 613,
	1255: 620,
	1258: 621,
	1261: 612,
	1264: 613,
	1273: 200,
	1276: 201,
	1279: 210,
	1282: 211,
}

// ConditionCode converts a WeatherAPI.com condition code. Unknown codes
// are returned unchanged and resolve to clear sky downstream.
func ConditionCode(code int) int {
	if id, ok := conditionCodes[code]; ok {
		return id
	}
	return code
}
