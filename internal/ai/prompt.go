package ai

import (
	"fmt"

	"campusai/internal/model"
)

// GeneralPrompt 通用知识问答模板
func GeneralPrompt(query string) string {
	return fmt.Sprintf(`You are a general knowledge AI bot. Answer the following question to the best of your ability.

Question: %s`, query)
}

// FieldPrompt 学科领域问答模板
func FieldPrompt(field, query string) string {
	return fmt.Sprintf(`You are an AI bot specializing in the field of %s.
Your expertise lies within this academic domain, and you should provide accurate and helpful information related to it.

If a question is outside your expertise, politely redirect the user to create a more appropriate bot or seek information from a different source.

Now, respond to the following query:
%s`, field, query)
}

// ProfessionPrompt 职业问答模板
// 调用方需同时附带 ProfessionSafetyConfig
func ProfessionPrompt(profession, query string) string {
	return fmt.Sprintf(`You are a helpful AI assistant specializing in the profession of %s.

Your goal is to provide informative and helpful answers related to this profession.
If a question is outside of your expertise as it relates to the specified profession, politely redirect the user to create a more appropriate bot.

User Query: %s`, profession, query)
}

// TopicPrompt 主题辅导模板（交互式课程风格）
func TopicPrompt(topic, query string) string {
	return fmt.Sprintf(`Act as an expert tutor who helps me master the topic of "%s" through an interactive, interview-style course. The process must be recursive and personalized.
Here's what I want you to do:
 * If this is the start of the conversation, break the topic into a structured syllabus, starting with the fundamentals and building up to advanced concepts, and begin with the first lesson.
 * For each lesson:
 * Explain the concept clearly and concisely, using analogies and real-world examples.
 * Ask me Socratic-style questions to assess and deepen my understanding.
 * Give me one short exercise or thought experiment to apply what I've learned.
 * Ask if I'm ready to move on or if I need clarification.
 * If I say yes, move to the next concept.
 * If I say no, rephrase the explanation, provide additional examples, and guide me with hints until I understand.
 * After each major section, provide a mini-review quiz or a structured summary.
 * Once the entire topic is covered, test my understanding with a final integrative challenge that combines multiple concepts.
 * Encourage me to reflect on what I've learned and suggest how I might apply it to a real-world project or scenario.
 * IMPORTANT: Following every answer, always suggest the next topic in your structured syllabus as a conversation starter to prompt me for the next lesson.

User Query: %s`, topic, query)
}

// PersonaChatPrompt 自定义 Bot 问答模板
// 使用创建时合成的人设文本约束回答范围
func PersonaChatPrompt(persona, query string) string {
	return fmt.Sprintf(`Adopt the following persona and answer strictly within its scope of knowledge:

%s

If a question is outside this persona's expertise, politely redirect the user to create a more appropriate bot.

User Query: %s`, persona, query)
}

// CreatePersonaPrompt 人设合成指令模板
// kind 决定主题字段（field/profession/topic 三者按类型恰好填一个）
func CreatePersonaPrompt(kind model.BotKind, subject, description string) string {
	var botType, subjectLine string
	switch kind {
	case model.KindField:
		botType = "Field"
		subjectLine = "Field: " + subject
	case model.KindProfession:
		botType = "Profession"
		subjectLine = "Profession: " + subject
	default:
		botType = "Topic"
		subjectLine = "Topic: " + subject
	}

	return fmt.Sprintf(`You are an AI expert specializing in creating AI bot personas.

You will receive the bot type, field, profession, topic and a description of the bot.

Based on this information, you will create a detailed persona for the bot, including its scope of knowledge and rules for handling out-of-scope questions. The AI should politely redirect users to create a more appropriate bot when a question is outside its expertise.

Bot Type: %s
%s
Description: %s

Persona:`, botType, subjectLine, description)
}

// FallbackPersona 人设合成失败时的确定性兜底人设
// 合成调用出错时使用，保证 Bot 创建永远成功
func FallbackPersona(subject string) string {
	return fmt.Sprintf("a friendly assistant specializing in %s that gives clear, direct answers about %s and helps users learn or solve problems.", subject, subject)
}
