package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// ResumeModulePrefix 简历模块
	ResumeModulePrefix = "resume"

	// EntityParsed 解析结果实体
	EntityParsed = "parsed"

	// KeyParsedByFileMD5 按上传文件内容缓存的解析结果 (STRING, JSON)
	// 格式: app:resume:parsed:file:{md5}
	KeyParsedByFileMD5 = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityParsed + ":file:%s"

	// KeyParsedByTextMD5 按纯文本输入缓存的解析结果 (STRING, JSON)
	// 格式: app:resume:parsed:text:{md5}
	KeyParsedByTextMD5 = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityParsed + ":text:%s"
)
