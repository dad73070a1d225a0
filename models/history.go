package models

import "time"

// AnalysisHistoryItem records one classification run by a user.
type AnalysisHistoryItem struct {
	ID          string         `json:"id"`
	Date        time.Time      `json:"date"`
	ImageBase64 string         `json:"imageBase64"`
	Result      AnalysisResult `json:"result"`
}
