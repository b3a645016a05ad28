package ai

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"campusai/internal/model"
)

func TestCreatePersonaPrompt(t *testing.T) {
	Convey("CreatePersonaPrompt 按类型只填一个主题字段", t, func() {
		Convey("field 类型", func() {
			got := CreatePersonaPrompt(model.KindField, "Astrophysics", "A bot about stars")
			So(got, ShouldContainSubstring, "Bot Type: Field")
			So(got, ShouldContainSubstring, "Field: Astrophysics")
			So(got, ShouldContainSubstring, "Description: A bot about stars")
			So(got, ShouldNotContainSubstring, "Profession:")
			So(got, ShouldNotContainSubstring, "Topic:")
		})

		Convey("profession 类型", func() {
			got := CreatePersonaPrompt(model.KindProfession, "Graphic Designer", "design helper")
			So(got, ShouldContainSubstring, "Bot Type: Profession")
			So(got, ShouldContainSubstring, "Profession: Graphic Designer")
			So(got, ShouldNotContainSubstring, "Field:")
		})

		Convey("topic 类型", func() {
			got := CreatePersonaPrompt(model.KindTopic, "The History of Rome", "rome tutor")
			So(got, ShouldContainSubstring, "Bot Type: Topic")
			So(got, ShouldContainSubstring, "Topic: The History of Rome")
			So(got, ShouldNotContainSubstring, "Field:")
			So(got, ShouldNotContainSubstring, "Profession: ")
		})
	})
}

func TestFallbackPersona(t *testing.T) {
	Convey("FallbackPersona 生成确定性兜底人设", t, func() {
		got := FallbackPersona("Quantum Computing")

		So(got, ShouldEqual, "a friendly assistant specializing in Quantum Computing that gives clear, direct answers about Quantum Computing and helps users learn or solve problems.")
		So(strings.Count(got, "Quantum Computing"), ShouldEqual, 2)

		Convey("相同输入每次输出一致", func() {
			So(FallbackPersona("Quantum Computing"), ShouldEqual, got)
		})
	})
}

func TestChatPrompts(t *testing.T) {
	Convey("各对话模板嵌入主题与用户输入", t, func() {
		Convey("general 模板只嵌入问题", func() {
			got := GeneralPrompt("Why is the sky blue?")
			So(got, ShouldContainSubstring, "general knowledge AI bot")
			So(got, ShouldContainSubstring, "Why is the sky blue?")
		})

		Convey("field 模板嵌入领域名", func() {
			got := FieldPrompt("Medicine", "What is DNA?")
			So(got, ShouldContainSubstring, "the field of Medicine")
			So(got, ShouldContainSubstring, "What is DNA?")
		})

		Convey("profession 模板嵌入职业名", func() {
			got := ProfessionPrompt("Chef", "How to cook rice?")
			So(got, ShouldContainSubstring, "the profession of Chef")
			So(got, ShouldContainSubstring, "How to cook rice?")
		})

		Convey("topic 模板嵌入主题名", func() {
			got := TopicPrompt("Linear Algebra", "start")
			So(got, ShouldContainSubstring, `the topic of "Linear Algebra"`)
			So(got, ShouldContainSubstring, "User Query: start")
		})

		Convey("persona 模板嵌入人设文本", func() {
			got := PersonaChatPrompt("an expert on Roman history", "Who was Caesar?")
			So(got, ShouldContainSubstring, "an expert on Roman history")
			So(got, ShouldContainSubstring, "Who was Caesar?")
		})
	})
}

func TestProfessionSafetyConfig(t *testing.T) {
	Convey("ProfessionSafetyConfig 各伤害类别使用固定阈值", t, func() {
		cfg := ProfessionSafetyConfig()
		So(len(cfg.Settings), ShouldEqual, 4)

		thresholds := make(map[string]string, len(cfg.Settings))
		for _, s := range cfg.Settings {
			thresholds[s.Category] = s.Threshold
		}

		So(thresholds["HARM_CATEGORY_HATE_SPEECH"], ShouldEqual, "BLOCK_ONLY_HIGH")
		So(thresholds["HARM_CATEGORY_DANGEROUS_CONTENT"], ShouldEqual, "BLOCK_NONE")
		So(thresholds["HARM_CATEGORY_HARASSMENT"], ShouldEqual, "BLOCK_MEDIUM_AND_ABOVE")
		So(thresholds["HARM_CATEGORY_SEXUALLY_EXPLICIT"], ShouldEqual, "BLOCK_LOW_AND_ABOVE")
	})
}
