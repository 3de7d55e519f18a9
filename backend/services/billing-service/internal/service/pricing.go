package service

import "math"

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
