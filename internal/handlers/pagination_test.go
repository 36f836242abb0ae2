package handlers

import "testing"

func TestParsePaginationParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		page, limit, err := parsePaginationParams("", "")
		if err != nil {
			t.Fatal(err)
		}
		if page != 1 || limit != 10 {
			t.Errorf("got page=%d limit=%d", page, limit)
		}
	})

	t.Run("explicit values", func(t *testing.T) {
		page, limit, err := parsePaginationParams("3", "25")
		if err != nil {
			t.Fatal(err)
		}
		if page != 3 || limit != 25 {
			t.Errorf("got page=%d limit=%d", page, limit)
		}
	})

	t.Run("rejects garbage and non-positive values", func(t *testing.T) {
		for _, pair := range [][2]string{
			{"abc", ""},
			{"0", ""},
			{"-1", ""},
			{"", "abc"},
			{"", "0"},
		} {
			if _, _, err := parsePaginationParams(pair[0], pair[1]); err == nil {
				t.Errorf("page=%q limit=%q: expected error", pair[0], pair[1])
			}
		}
	})
}
