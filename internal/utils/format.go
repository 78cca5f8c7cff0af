package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormatCurrency renders a USD amount for display
func FormatCurrency(value float64) string {
	return fmt.Sprintf("$%.2f", value)
}

// FormatChange renders a signed percentage, e.g. "+1.23%"
func FormatChange(value float64) string {
	if value > 0 {
		return fmt.Sprintf("+%.2f%%", value)
	}
	return fmt.Sprintf("%.2f%%", value)
}

// DisplaySymbol strips the USDT suffix for display ("BTCUSDT" -> "BTC")
func DisplaySymbol(symbol string) string {
	return strings.TrimSuffix(strings.ToUpper(symbol), "USDT")
}

// FormatTimeShort renders a timestamp as HH:MM for chart axes and cards
func FormatTimeShort(t time.Time) string {
	return t.Format("15:04")
}
