package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// NoopCallback is the callback data of display-only buttons.
const NoopCallback = "noop"

// PaginationRow creates a pagination row with prev/next buttons. Callback data
// is callbackPrefix followed by the zero-based page number. A single page
// yields no row.
func PaginationRow(currentPage, totalPages int, callbackPrefix string) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var row []models.InlineKeyboardButton
	if currentPage > 0 {
		row = append(row, InlineButton("⬅️", fmt.Sprintf("%s%d", callbackPrefix, currentPage-1)))
	}
	row = append(row, InlineButton(fmt.Sprintf("%d/%d", currentPage+1, totalPages), NoopCallback))
	if currentPage < totalPages-1 {
		row = append(row, InlineButton("➡️", fmt.Sprintf("%s%d", callbackPrefix, currentPage+1)))
	}
	return row
}
