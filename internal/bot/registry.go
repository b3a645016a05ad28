// Package bot 内置 Bot 人设注册表
// 进程启动时定义，运行期只读；查询是纯函数，唯一的失败形态是 not-found
package bot

import (
	"campusai/internal/model"
)

// GeneralKnowledgeID 默认通用知识 Bot 的ID
const GeneralKnowledgeID = "knowledge"

// generalKnowledge 通用知识 Bot（未指定路由时的默认人设）
var generalKnowledge = &model.Bot{
	ID:          GeneralKnowledgeID,
	Name:        "General Knowledge",
	Description: "Your go-to for any question.",
	Kind:        model.KindGeneral,
	ConversationStarters: []string{
		"Who was the first person in space?",
		"What is the capital of Australia?",
		"How tall is Mount Everest?",
	},
}

// fieldBots 学科领域 Bot
var fieldBots = []*model.Bot{
	{
		ID:          "medicine",
		Name:        "Medicine",
		Description: "AI assistant for medical knowledge.",
		Kind:        model.KindField,
		ConversationStarters: []string{
			"Explain the Krebs cycle",
			"What are the symptoms of pneumonia?",
			"Describe the difference between a virus and a bacteria",
		},
	},
	{
		ID:          "law",
		Name:        "Law",
		Description: "AI assistant for legal questions.",
		Kind:        model.KindField,
		ConversationStarters: []string{
			`What is "habeas corpus"?`,
			`Explain the concept of "double jeopardy"`,
			"What are the basic elements of a contract?",
		},
	},
	{
		ID:          "engineering",
		Name:        "Engineering",
		Description: "AI assistant for engineering concepts.",
		Kind:        model.KindField,
		ConversationStarters: []string{
			"Explain Bernoulli's principle",
			"What is the difference between AC and DC electricity?",
			"How does a 4-stroke engine work?",
		},
	},
	{
		ID:          "business",
		Name:        "Business",
		Description: "AI assistant for business strategies.",
		Kind:        model.KindField,
		ConversationStarters: []string{
			"What is a SWOT analysis?",
			`Explain the concept of "return on investment"`,
			"What are different types of market structures?",
		},
	},
}

// professionBots 职业 Bot
var professionBots = []*model.Bot{
	{
		ID:          "doctor",
		Name:        "Doctor",
		Description: "Simulates a conversation with a doctor.",
		Kind:        model.KindProfession,
		ConversationStarters: []string{
			"I have a headache and a fever, what could it be?",
			"What are some common side effects of this medication?",
			"How can I maintain a healthy heart?",
		},
	},
	{
		ID:          "chef",
		Name:        "Chef",
		Description: "Get recipes and cooking advice.",
		Kind:        model.KindProfession,
		ConversationStarters: []string{
			"What can I make with chicken, rice, and broccoli?",
			"How do I make a classic vinaigrette?",
			"What is the best way to cook a steak?",
		},
	},
	{
		ID:          "teacher",
		Name:        "Teacher",
		Description: "Explains concepts like a teacher would.",
		Kind:        model.KindProfession,
		ConversationStarters: []string{
			"Can you explain photosynthesis to me like I am 12?",
			"Why is the sky blue?",
			"Help me understand the Pythagorean theorem.",
		},
	},
	{
		ID:          "lawyer",
		Name:        "Lawyer",
		Description: "Simulates a conversation with a lawyer.",
		Kind:        model.KindProfession,
		ConversationStarters: []string{
			"What should I do if I get into a car accident?",
			"What are my rights if I am arrested?",
			"Explain intellectual property in simple terms.",
		},
	},
}

// registry (kind, id) -> Bot 的查询表，init 时构建一次
var registry = buildRegistry()

type registryKey struct {
	kind model.BotKind
	id   string
}

func buildRegistry() map[registryKey]*model.Bot {
	m := make(map[registryKey]*model.Bot)
	m[registryKey{model.KindGeneral, generalKnowledge.ID}] = generalKnowledge
	for _, b := range fieldBots {
		m[registryKey{b.Kind, b.ID}] = b
	}
	for _, b := range professionBots {
		m[registryKey{b.Kind, b.ID}] = b
	}
	return m
}

// Lookup 查询内置 Bot
// 纯函数：相同的 (kind, id) 永远返回同一个 Bot 对象
func Lookup(kind model.BotKind, id string) (*model.Bot, bool) {
	b, ok := registry[registryKey{kind, id}]
	return b, ok
}

// General 返回默认的通用知识 Bot
func General() *model.Bot {
	return generalKnowledge
}

// All 返回所有内置 Bot（通用 + 领域 + 职业），顺序固定
func All() []*model.Bot {
	all := make([]*model.Bot, 0, 1+len(fieldBots)+len(professionBots))
	all = append(all, generalKnowledge)
	all = append(all, fieldBots...)
	all = append(all, professionBots...)
	return all
}
