package storage

import "time"

// ResumeParsedEvent 解析完成事件，只包含统计信息，不包含任何个人信息
type ResumeParsedEvent struct {
	EventID        string         `json:"event_id"`
	EventType      string         `json:"event_type"`
	SubmissionUUID string         `json:"submission_uuid"`
	OccurredAt     time.Time      `json:"occurred_at"`
	Source         string         `json:"source"` // upload 或 text
	Format         string         `json:"format,omitempty"`
	ObjectKey      string         `json:"object_key,omitempty"`
	SectionTypes   []string       `json:"section_types"`
	EntryCounts    map[string]int `json:"entry_counts"` // 每种章节的条目数
	HasName        bool           `json:"has_name"`
	HasEmail       bool           `json:"has_email"`
	HasPhone       bool           `json:"has_phone"`
	Cached         bool           `json:"cached"`
	ParserVersion  string         `json:"parser_version"`
}
