package tools

// All returns every tool in registration order: read, play, albums, suggestions
func All() []Tool {
	var all []Tool
	all = append(all, ReadTools()...)
	all = append(all, PlayTools()...)
	all = append(all, AlbumTools()...)
	all = append(all, SuggestionTools()...)
	return all
}
