package contentful

import "time"

type sysResponse struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	LinkType    string       `json:"linkType"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	ContentType *linkWrapper `json:"contentType,omitempty"`
}

type linkWrapper struct {
	Sys sysResponse `json:"sys"`
}

type entryResponse struct {
	Sys    sysResponse    `json:"sys"`
	Fields map[string]any `json:"fields"`
}

type assetResponse struct {
	Sys    sysResponse `json:"sys"`
	Fields struct {
		Title string `json:"title"`
		File  struct {
			URL string `json:"url"`
		} `json:"file"`
	} `json:"fields"`
}

type includesResponse struct {
	Entry []entryResponse `json:"Entry"`
	Asset []assetResponse `json:"Asset"`
}

type collectionResponse struct {
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
	Items    []entryResponse  `json:"items"`
	Includes includesResponse `json:"includes"`
}

type errorResponse struct {
	Message string `json:"message"`
	Sys     struct {
		ID string `json:"id"`
	} `json:"sys"`
}
