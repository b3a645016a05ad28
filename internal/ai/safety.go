package ai

// SafetySetting 单个伤害类别的拦截阈值
// Category/Threshold 使用上游服务的原始字符串，按原文透传，不在本地解释
type SafetySetting struct {
	Category  string
	Threshold string
}

// SafetyConfig 一次补全调用附带的内容安全配置
type SafetyConfig struct {
	Settings []SafetySetting
}

// ProfessionSafetyConfig 职业类 Bot 对话使用的固定安全配置
// 各伤害类别阈值不同，必须原样传给补全服务
func ProfessionSafetyConfig() *SafetyConfig {
	return &SafetyConfig{
		Settings: []SafetySetting{
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_ONLY_HIGH"},
			{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_NONE"},
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_LOW_AND_ABOVE"},
		},
	}
}
