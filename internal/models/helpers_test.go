package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

// fruitRows is a small inventory sheet used across the package tests.
func fruitRows() [][]string {
	return [][]string{
		{"Name", "Colour", "Qty", "Picked"},
		{"Apple", "red", "3", "2024-01-02"},
		{"banana", "yellow", "12", "2024-01-03"},
		{"Cherry", "red", "", "2024-02-10"},
		{"date", "", "7.5", "2024-03-01"},
	}
}

func mustDataset(t *testing.T, rows [][]string) *Dataset {
	t.Helper()
	ds, err := FromRows("test.xlsx", "Sheet1", rows)
	require.NoError(t, err)
	return ds
}
