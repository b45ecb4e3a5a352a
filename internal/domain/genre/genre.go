package genre

// Genre is the genre search document.
type Genre struct {
	ID   string
	Name string
}
