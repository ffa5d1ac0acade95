package models

// Notion wire types. One PropertyValue struct covers both read and write
// payloads; exactly one of its fields is set per property.

type NotionQueryRequest struct {
	Filter   *NotionFilter `json:"filter,omitempty"`
	PageSize int           `json:"page_size,omitempty"`
}

type NotionFilter struct {
	Property string              `json:"property"`
	Number   *NotionNumberFilter `json:"number,omitempty"`
	Title    *NotionTextFilter   `json:"title,omitempty"`
	Select   *NotionSelectFilter `json:"select,omitempty"`
}

type NotionNumberFilter struct {
	Equals *float64 `json:"equals,omitempty"`
}

type NotionTextFilter struct {
	Equals   string `json:"equals,omitempty"`
	Contains string `json:"contains,omitempty"`
}

type NotionSelectFilter struct {
	Equals string `json:"equals,omitempty"`
}

type NotionQueryResponse struct {
	Results []NotionPage `json:"results"`
}

type NotionPage struct {
	ID         string                   `json:"id"`
	Properties map[string]PropertyValue `json:"properties"`
}

type PropertyValue struct {
	Title       []RichText     `json:"title,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
}

type RichText struct {
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

type TextContent struct {
	Content string `json:"content"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type NotionCreateRequest struct {
	Parent     NotionParent             `json:"parent"`
	Properties map[string]PropertyValue `json:"properties"`
}

type NotionParent struct {
	DatabaseID string `json:"database_id"`
}

type NotionUpdateRequest struct {
	Properties map[string]PropertyValue `json:"properties"`
}

type NotionBlockList struct {
	Results []NotionBlock `json:"results"`
}

type NotionBlock struct {
	Object string       `json:"object,omitempty"`
	Type   string       `json:"type"`
	Image  *NotionImage `json:"image,omitempty"`
}

type NotionImage struct {
	Type     string             `json:"type,omitempty"`
	External NotionExternalFile `json:"external"`
}

type NotionExternalFile struct {
	URL string `json:"url"`
}

type NotionAppendRequest struct {
	Children []NotionBlock `json:"children"`
}
