package formatting

import "fmt"

// FormatPrice форматирует цену из тийинов в сумы
func FormatPrice(minor int64) string {
	return fmt.Sprintf("%.2f сум", float64(minor)/100)
}

// FormatPriceShort форматирует цену без дробной части если она равна 0
func FormatPriceShort(minor int64) string {
	if minor%100 == 0 {
		return fmt.Sprintf("%d сум", minor/100)
	}
	return FormatPrice(minor)
}
