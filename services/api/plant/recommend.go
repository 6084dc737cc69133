package plant

// Recommendations lists care advice for readings outside the comfortable
// band of each sensor, in sensor order.
func Recommendations(r Reading) []string {
	recs := []string{}

	switch {
	case r.Temperature < 20:
		recs = append(recs, "La temperatura es muy baja para la planta")
	case r.Temperature > 30:
		recs = append(recs, "La temperatura es muy alta para la planta")
	}

	switch {
	case r.Humidity < 40:
		recs = append(recs, "La humedad ambiente es muy baja")
	case r.Humidity > 80:
		recs = append(recs, "La humedad ambiente es muy alta")
	}

	switch {
	case r.SoilMoisture < 400:
		recs = append(recs, "La planta necesita agua")
	case r.SoilMoisture > 800:
		recs = append(recs, "El suelo está muy húmedo")
	}

	switch {
	case r.Light < 400:
		recs = append(recs, "La planta necesita más luz")
	case r.Light > 800:
		recs = append(recs, "Hay demasiada luz directa")
	}

	return recs
}
