package fields

type PaginatedFields struct {
	Fields []Field
	Total  int64
}
