package rules

import "regexp"

// AIReferencePatterns 人性化阶段要整段剔除的自指短语。
var AIReferencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i'm a computer program`),
	regexp.MustCompile(`(?i)i'm an ai`),
	regexp.MustCompile(`(?i)i'm artificial intelligence`),
	regexp.MustCompile(`(?i)i'm a machine`),
	regexp.MustCompile(`(?i)i'm a bot`),
	regexp.MustCompile(`(?i)i'm a chatbot`),
	regexp.MustCompile(`(?i)i'm a language model`),
	regexp.MustCompile(`(?i)i'm a computer`),
	regexp.MustCompile(`(?i)i'm not human`),
	regexp.MustCompile(`(?i)i don't have feelings`),
	regexp.MustCompile(`(?i)i don't experience`),
	regexp.MustCompile(`(?i)i can't feel`),
	regexp.MustCompile(`(?i)i don't have days`),
	regexp.MustCompile(`(?i)i don't have a day`),
	regexp.MustCompile(`(?i)i don't have time`),
	regexp.MustCompile(`(?i)i don't have experiences`),
	regexp.MustCompile(`(?i)i don't watch`),
	regexp.MustCompile(`(?i)i don't have favorites`),
	regexp.MustCompile(`(?i)i can't have favorites`),
	regexp.MustCompile(`(?i)i don't have preferences`),
	regexp.MustCompile(`(?i)i can't really have`),
	regexp.MustCompile(`(?i)i'm here to help`),
	regexp.MustCompile(`(?i)i'm designed to`),
	regexp.MustCompile(`(?i)i'm programmed to`),
	regexp.MustCompile(`(?i)as an ai`),
	regexp.MustCompile(`(?i)as a computer`),
	regexp.MustCompile(`(?i)as a machine`),
	regexp.MustCompile(`(?i)i'm just a`),
	regexp.MustCompile(`(?i)i'm only a`),
}

// Contraction 一条书面语 → 口语缩写的替换规则。
type Contraction struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Contractions 口语化缩写表，按顺序应用。
var Contractions = []Contraction{
	{regexp.MustCompile(`(?i)\bi am\b`), "i'm"},
	{regexp.MustCompile(`(?i)\bi will\b`), "i'll"},
	{regexp.MustCompile(`(?i)\bi have\b`), "i've"},
	{regexp.MustCompile(`(?i)\bi would\b`), "i'd"},
	{regexp.MustCompile(`(?i)\bi cannot\b`), "i can't"},
	{regexp.MustCompile(`(?i)\bdo not\b`), "don't"},
	{regexp.MustCompile(`(?i)\bdoes not\b`), "doesn't"},
	{regexp.MustCompile(`(?i)\bwill not\b`), "won't"},
	{regexp.MustCompile(`(?i)\bwould not\b`), "wouldn't"},
	{regexp.MustCompile(`(?i)\bcannot\b`), "can't"},
	{regexp.MustCompile(`(?i)\bthat is\b`), "that's"},
	{regexp.MustCompile(`(?i)\bit is\b`), "it's"},
	{regexp.MustCompile(`(?i)\bthere is\b`), "there's"},
	{regexp.MustCompile(`(?i)\bhere is\b`), "here's"},
	{regexp.MustCompile(`(?i)\bwhat is\b`), "what's"},
	{regexp.MustCompile(`(?i)\bwhere is\b`), "where's"},
	{regexp.MustCompile(`(?i)\bwho is\b`), "who's"},
	{regexp.MustCompile(`(?i)\bhow is\b`), "how's"},
}

// FormalReplacements 书面套话 → 口语表达。
var FormalReplacements = []Contraction{
	{regexp.MustCompile(`(?i)\bI understand\b`), "i get it"},
	{regexp.MustCompile(`(?i)\bI appreciate\b`), "thanks"},
	{regexp.MustCompile(`(?i)\bI apologize\b`), "sorry"},
	{regexp.MustCompile(`(?i)\bI would like to\b`), "i'd like to"},
	{regexp.MustCompile(`(?i)\bI would be happy to\b`), "i'd be happy to"},
}

// BannedTokens 终检阶段仍残留即整体否决的词。
var BannedTokens = []string{"computer", "program", "ai", "artificial", "machine", "bot", "chatbot", "language model"}

// BannedFormalPhrases 终检阶段不允许出现的书面套话。
var BannedFormalPhrases = []string{
	"i hope this message finds you well",
	"i am here to assist",
	"i am designed to",
	"i am programmed to",
	"as an ai",
	"i cannot experience",
	"i do not have the ability to",
}

// 终检的长度边界。
const (
	ValidityMinLength = 5
	ValidityMaxLength = 500
)
