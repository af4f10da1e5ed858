package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ResumeSubmission 简历上传记录，只保存文件元数据，不保存解析结果
type ResumeSubmission struct {
	SubmissionUUID   string         `gorm:"type:char(36);primaryKey"`
	OriginalFilename string         `gorm:"type:varchar(255)"`
	ContentType      string         `gorm:"type:varchar(127)"`
	Format           string         `gorm:"type:varchar(16);index:idx_rs_format"`
	FileSize         int64          `gorm:"not null"`
	RawFileMD5       string         `gorm:"type:char(32);index:idx_rs_raw_file_md5"`
	ObjectKey        string         `gorm:"type:varchar(1024)"`
	Extractor        string         `gorm:"type:varchar(64)"`
	ExtractorMeta    datatypes.JSON `gorm:"type:json"`
	SectionTypes     datatypes.JSON `gorm:"type:json"` // string[]
	ProcessingStatus string         `gorm:"type:varchar(50);default:'PARSED';index:idx_rs_processing_status"`
	ParserVersion    string         `gorm:"type:varchar(50)"`
	CreatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_created_at"`
	UpdatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}

// SetExtractorMeta 只保留可以 JSON 序列化的字段
func (s *ResumeSubmission) SetExtractorMeta(meta map[string]any) error {
	if len(meta) == 0 {
		s.ExtractorMeta = datatypes.JSON("{}")
		return nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	s.ExtractorMeta = datatypes.JSON(data)
	return nil
}

// SetSectionTypes 记录识别到的章节类型
func (s *ResumeSubmission) SetSectionTypes(types []string) error {
	if types == nil {
		types = []string{}
	}
	data, err := json.Marshal(types)
	if err != nil {
		return err
	}
	s.SectionTypes = datatypes.JSON(data)
	return nil
}

// GetSectionTypes 解析章节类型字段
func (s *ResumeSubmission) GetSectionTypes() []string {
	var types []string
	if len(s.SectionTypes) > 0 {
		_ = json.Unmarshal(s.SectionTypes, &types)
	}
	return types
}
