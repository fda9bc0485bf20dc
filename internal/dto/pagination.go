package dto

import (
	"fmt"
	"net/url"
	"strconv"
)

// Пределы пагинации списка офферов.
const (
	DefaultPageSize = 1
	MaxPageSize     = 100
)

// PaginatedResponse оборачивает списковую выдачу в конверт с навигацией.
type PaginatedResponse struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// NewPaginatedResponse собирает конверт пагинации. Ссылки next/previous
// строятся из базового пути и исходных query параметров.
func NewPaginatedResponse(basePath string, query url.Values, page, pageSize, count int, results interface{}) PaginatedResponse {
	resp := PaginatedResponse{
		Count:   count,
		Results: results,
	}

	lastPage := (count + pageSize - 1) / pageSize
	if page < lastPage {
		next := pageLink(basePath, query, page+1)
		resp.Next = &next
	}
	if page > 1 {
		prev := pageLink(basePath, query, page-1)
		resp.Previous = &prev
	}

	return resp
}

// ParsePage читает номер страницы из query, по умолчанию 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParsePageSize читает размер страницы из query с учётом пределов.
func ParsePageSize(raw string) int {
	size, err := strconv.Atoi(raw)
	if err != nil || size < 1 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// pageLink собирает ссылку на страницу, сохраняя остальные параметры.
func pageLink(basePath string, query url.Values, page int) string {
	q := url.Values{}
	for key, values := range query {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	return fmt.Sprintf("%s?%s", basePath, q.Encode())
}
