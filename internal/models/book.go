package models

// Book represents a row in the books table. Year is free-form text, not a
// number: the catalog accepts values like "1937" or "c. 1850".
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	Year        string `json:"year,omitempty"`
	Genre       string `json:"genre,omitempty"`
}

// BookRequest is the JSON body for POST /add_book and PUT /edit_book/{id}.
// On edit every field replaces the stored value, including empty ones.
type BookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Year        string `json:"year"`
	Genre       string `json:"genre"`
}
