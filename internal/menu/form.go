package menu

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fiyat formdan serbest metin olarak gelir. Hatalı metin veritabanına NaN
// olarak yazılmamalı; parse hatası 400 olarak kullanıcıya döner.
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("fiyat boş olamaz")
	}
	// Türkçe klavyede virgülle girilen fiyatları da kabul et
	s = strings.ReplaceAll(s, ",", ".")
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("fiyat sayı değil: %q", s)
	}
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0, fmt.Errorf("geçersiz fiyat değeri: %q", s)
	}
	return p, nil
}

// Boş metin = stok limiti yok (sınırsız).
func parseQuantity(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	q, err := strconv.Atoi(s)
	if err != nil || q < 0 {
		return nil, fmt.Errorf("geçersiz stok limiti: %q", s)
	}
	return &q, nil
}

func parseAvailability(s string, def bool) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("geçersiz satışta değeri: %q", s)
	}
	return b, nil
}
