package api

import (
	"fmt"
	"math/rand/v2"
	"time"
)

var (
	randomCountries = []string{"Spain", "Mexico", "Argentina", "Colombia", "Chile", "USA", "France", "Germany", "Brazil", "Peru"}
	randomCities    = map[string][]string{
		"Spain":     {"Barcelona", "Madrid", "Valencia", "Seville"},
		"Mexico":    {"Mexico City", "Guadalajara", "Monterrey"},
		"Argentina": {"Buenos Aires", "Cordoba", "Rosario"},
		"Colombia":  {"Bogotá", "Medellín", "Cali"},
		"Chile":     {"Santiago", "Valparaiso", "Concepción"},
		"USA":       {"New York", "Los Angeles", "Chicago", "Miami"},
		"France":    {"Paris", "Lyon", "Marseille"},
		"Germany":   {"Berlin", "Munich", "Hamburg"},
		"Brazil":    {"São Paulo", "Rio de Janeiro", "Brasilia"},
		"Peru":      {"Lima", "Cusco", "Arequipa"},
	}
	randomSexes       = []string{"Male", "Female", "Other"}
	randomCivilStates = []string{"Single", "Married", "Divorced", "Widowed", "Separated", "Partner"}
)

func pick[T any](items []T) T {
	return items[rand.IntN(len(items))]
}

func randomProfile() map[string]any {
	age := 18 + rand.IntN(48)
	birthYear := time.Now().Year() - age
	country := pick(randomCountries)
	hasSons := rand.IntN(2) == 1
	numSons := 0
	if hasSons {
		numSons = 1 + rand.IntN(4)
	}

	return map[string]any{
		"name":        fmt.Sprintf("User%d", 1+rand.IntN(100)),
		"age":         age,
		"birthday":    fmt.Sprintf("%d/%d/%d", 1+rand.IntN(28), 1+rand.IntN(12), birthYear),
		"country":     country,
		"city":        pick(randomCities[country]),
		"sex":         pick(randomSexes),
		"has_sons":    hasSons,
		"num_sons":    numSons,
		"civil_state": pick(randomCivilStates),
	}
}
