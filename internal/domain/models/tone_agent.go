package models

// ToneAgentID selects the voice of a market comment.
type ToneAgentID string

const (
	AgentPro       ToneAgentID = "pro"
	AgentCheerful  ToneAgentID = "cheerful"
	AgentDry       ToneAgentID = "dry"
	AgentProfessor ToneAgentID = "professor"
	AgentZen       ToneAgentID = "zen"
)

type ToneAgent struct {
	ID          ToneAgentID `json:"id"`
	Name        string      `json:"name"`
	Emoji       string      `json:"emoji"`
	Description string      `json:"description"`
	Style       string      `json:"style"`
}

var ToneAgents = []ToneAgent{
	{
		ID:          AgentPro,
		Name:        "Analyst Pro",
		Emoji:       "📊",
		Description: "Calm, concise, Bloomberg-style",
		Style:       "Write in a neutral analyst tone, like a Bloomberg FX strategist. Keep it professional and data-driven.",
	},
	{
		ID:          AgentCheerful,
		Name:        "Coach Sunny",
		Emoji:       "☀️",
		Description: "Upbeat, simple, emoji-rich",
		Style:       "Write in a friendly, emoji-rich tone for a curious beginner. Be encouraging and positive.",
	},
	{
		ID:          AgentDry,
		Name:        "Sarcastic Bot",
		Emoji:       "🙄",
		Description: "Deadpan, cynical",
		Style:       "Write in a sarcastic, blunt tone with short sentences. Be witty but not mean.",
	},
	{
		ID:          AgentProfessor,
		Name:        "FX Scholar",
		Emoji:       "🎓",
		Description: "Formal, detailed",
		Style:       "Write like a macroeconomics professor, formal and precise. Include a brief educational insight.",
	},
	{
		ID:          AgentZen,
		Name:        "Calm Monk",
		Emoji:       "🧘",
		Description: "Meditative, balanced",
		Style:       "Write like a calm, meditative monk observing the market. Be philosophical and balanced.",
	},
}

// AgentByID returns the agent with the given id, or the pro agent.
func AgentByID(id ToneAgentID) ToneAgent {
	for _, a := range ToneAgents {
		if a.ID == id {
			return a
		}
	}
	return ToneAgents[0]
}
