package prompt

// Placeholders substituted by the builders.
const (
	PlaceholderUserMessage = "{{user_message}}"
	PlaceholderCorrections = "{{corrections}}"
	PlaceholderLevel       = "{{level}}"
	PlaceholderLearnerLog  = "{{learner_messages}}"
	PlaceholderTranscript  = "{{transcript}}"
)

// Templates is the full set of instructions sent to the model.
// The yaml tags name the keys of the override file.
type Templates struct {
	GrammarSystem string `yaml:"grammar_system"`
	Grammar       string `yaml:"grammar"`

	TutorSystem       string `yaml:"tutor_system"`
	TutorReply        string `yaml:"tutor_reply"`
	TutorReplyNoError string `yaml:"tutor_reply_no_errors"`

	ChatSystem string `yaml:"chat_system"`

	FeedbackSystem string `yaml:"feedback_system"`
	Feedback       string `yaml:"feedback"`
}

func Default() Templates {
	return Templates{
		GrammarSystem: "You are a grammar checker. Respond ONLY with valid JSON, no other text.",
		Grammar: `Analyze the following text for grammar errors.
For each error found, provide the original text, the correction, and a brief explanation.
The "original" value must be copied exactly from the text so it can be highlighted.

Text: {{user_message}}

Respond ONLY with valid JSON in this exact format (no other text):
{
    "errors": [
        {
            "original": "the incorrect phrase",
            "corrected": "the correct phrase",
            "explanation": "brief explanation"
        }
    ],
    "is_correct": true or false
}

If there are no errors, return: {"errors": [], "is_correct": true}`,

		TutorSystem: `You are an expert English language tutor. Your role is to:
1. Help users improve their English speaking and writing skills
2. Correct grammar mistakes gently and explain why
3. Suggest better vocabulary and expressions
4. Encourage the user and make learning enjoyable
5. Adapt to the user's proficiency level

Always be patient, supportive, and provide clear explanations.
Keep responses conversational and not too long.`,
		TutorReply: `The user said: "{{user_message}}"
User level: {{level}}

I found these grammar issues:
{{corrections}}

Please respond naturally as a tutor - acknowledge what they said, gently mention the corrections with brief explanations, and continue the conversation. Keep it friendly and encouraging.`,
		TutorReplyNoError: `The user said: "{{user_message}}"
User level: {{level}}

Their grammar is correct! Respond naturally as a tutor - continue the conversation and maybe ask a follow-up question to keep them practicing.`,

		ChatSystem: `You are a friendly English-speaking conversation partner. Your role is to:
1. Have natural, casual conversations like a native English speaker
2. Talk about any topic the user wants - hobbies, news, life, etc.
3. Be friendly, warm, and engaging
4. Ask follow-up questions to keep the conversation going
5. DO NOT correct grammar or mention language learning

Act like a normal friend chatting, not a teacher. Keep responses natural and conversational.`,

		FeedbackSystem: "You are an expert English language analyst. Provide detailed, constructive feedback. Respond ONLY with valid JSON.",
		Feedback: `Analyze the following conversation messages from an English learner and provide comprehensive feedback.

Learner messages:
{{learner_messages}}

Full conversation for context (only assess the learner's lines):
{{transcript}}

Provide detailed feedback in the following JSON format:
{
    "overall_score": 1-10,
    "grammar_errors": [
        {
            "original": "what they said",
            "corrected": "correct version",
            "explanation": "why this is wrong"
        }
    ],
    "vocabulary_suggestions": [
        {
            "original": "basic word/phrase used",
            "better_alternatives": ["better option 1", "better option 2"],
            "context": "when to use these"
        }
    ],
    "strengths": ["list of things they did well"],
    "areas_to_improve": ["specific areas to work on"],
    "tips": ["actionable tips for improvement"],
    "encouragement": "a positive, encouraging message"
}

Be thorough but constructive. Focus on patterns, not just individual errors.`,
	}
}

// merge fills empty fields of t from defaults.
func (t Templates) merge(defaults Templates) Templates {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Templates{
		GrammarSystem:     pick(t.GrammarSystem, defaults.GrammarSystem),
		Grammar:           pick(t.Grammar, defaults.Grammar),
		TutorSystem:       pick(t.TutorSystem, defaults.TutorSystem),
		TutorReply:        pick(t.TutorReply, defaults.TutorReply),
		TutorReplyNoError: pick(t.TutorReplyNoError, defaults.TutorReplyNoError),
		ChatSystem:        pick(t.ChatSystem, defaults.ChatSystem),
		FeedbackSystem:    pick(t.FeedbackSystem, defaults.FeedbackSystem),
		Feedback:          pick(t.Feedback, defaults.Feedback),
	}
}
