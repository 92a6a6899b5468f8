// Package scenarios contains built-in demo scenarios for moodring.
package scenarios

import (
	"time"

	"github.com/zhubert/moodring/internal/conversation"
	"github.com/zhubert/moodring/internal/demo"
	"github.com/zhubert/moodring/internal/ui"
)

func user(text string, s conversation.Sentiment) conversation.Message {
	return conversation.NewMessage(conversation.SenderUser, text, s)
}

func bot(text string) conversation.Message {
	return conversation.BotMessage(text)
}

// pastConversations is the history shown behind the scenarios.
var pastConversations = []demo.SeedConversation{
	{
		ID:  "3f9c2e71a4b8",
		Age: 26 * time.Hour,
		Messages: []conversation.Message{
			user("The rain ruined our picnic plans again.", conversation.SentimentNegative),
			bot("That's a letdown. An **indoor picnic** with a blanket on the living room floor can still be fun."),
		},
		Verdict: &conversation.Verdict{
			Label:   "Negative",
			Score:   0.2134,
			Summary: "Disappointment about cancelled plans, softened by a suggestion.",
		},
	},
	{
		ID:  "a71d05be93c4",
		Age: 72 * time.Hour,
		Messages: []conversation.Message{
			user("Can you suggest a book for a long flight?", conversation.SentimentNeutral),
			bot("Try *Project Hail Mary*. It is light, funny and hard to put down."),
			user("Perfect, I loved The Martian!", conversation.SentimentPositive),
			bot("Then you are in for a treat."),
		},
	},
	{
		ID:  "c0ffee42d1e5",
		Age: 9 * 24 * time.Hour,
		Messages: []conversation.Message{
			user("My sourdough finally rose properly", conversation.SentimentPositive),
			bot("Congratulations! Patience with the starter pays off:\n\n```text\nfeed -> wait -> fold -> wait -> bake\n```"),
		},
	},
}

// Basic shows a new conversation: two messages tagged with their sentiment,
// then the whole conversation analyzed.
var Basic = &demo.Scenario{
	Name:        "basic",
	Description: "Chat, see each message tagged, analyze the conversation",
	Width:       120,
	Height:      40,
	Setup: &demo.ScenarioSetup{
		Conversations: pastConversations,
		Replies: []demo.ScriptedReply{
			{
				Sentiment: conversation.SentimentPositive,
				Text:      "**Congratulations!** That is wonderful news. How are you feeling about starting?",
			},
			{
				Sentiment: conversation.SentimentNegative,
				Text: "Nerves are completely normal before a new job. A few things that help:\n\n" +
					"- Visit the office or try the commute once\n" +
					"- Write down questions for your first week\n" +
					"- Remember they chose *you*",
			},
			{
				Sentiment: conversation.SentimentPositive,
				Text:      "That's the spirit. Good luck on Monday!",
			},
		},
		Focus: "chat",
	},
	Steps: []demo.Step{
		demo.Wait(1 * time.Second),

		demo.Annotate("Type a message and press enter"),
		demo.Type("I just got the job offer!"),
		demo.Capture(),
		demo.Key("enter"),
		demo.Capture(),
		demo.Wait(1500 * time.Millisecond),

		demo.Annotate("Each message is tagged with its sentiment"),
		demo.Type("But I'm nervous about the first day"),
		demo.Key("enter"),
		demo.Wait(2 * time.Second),

		demo.Type("Thanks, I feel better already"),
		demo.Key("enter"),
		demo.Wait(1500 * time.Millisecond),

		demo.Annotate("ctrl+e analyzes the whole conversation"),
		demo.KeyWithDesc("ctrl+e", "Analyze conversation"),
		demo.Wait(3 * time.Second),
	},
}

// History shows browsing and searching past conversations.
var History = &demo.Scenario{
	Name:        "history",
	Description: "Browse, search and reopen past conversations",
	Width:       120,
	Height:      40,
	Setup: &demo.ScenarioSetup{
		Conversations: pastConversations,
		Focus:         "sidebar",
	},
	Steps: []demo.Step{
		demo.Wait(1 * time.Second),

		demo.Annotate("Pick a conversation from the history"),
		demo.Key("down"),
		demo.Key("enter"),
		demo.Wait(1500 * time.Millisecond),

		demo.Annotate("/ searches previews"),
		demo.Key("tab"),
		demo.Key("/"),
		demo.Type("rain"),
		demo.Capture(),
		demo.Key("enter"),
		demo.Key("enter"),
		demo.Wait(1500 * time.Millisecond),

		demo.KeyWithDesc("ctrl+e", "Analyze conversation"),
		demo.Wait(2 * time.Second),

		demo.Annotate("ctrl+n starts over"),
		demo.Key("ctrl+n"),
		demo.Wait(2 * time.Second),
	},
}

// Themes cycles through the built-in color themes.
var Themes = &demo.Scenario{
	Name:        "themes",
	Description: "Cycle through the color themes",
	Width:       120,
	Height:      36,
	Setup: &demo.ScenarioSetup{
		Conversations: pastConversations,
		Theme:         string(ui.DefaultTheme),
		Focus:         "sidebar",
	},
	Steps: []demo.Step{
		demo.Key("enter"),
		demo.Wait(1 * time.Second),
		demo.Key("ctrl+t"),
		demo.Wait(1 * time.Second),
		demo.Key("ctrl+t"),
		demo.Wait(1 * time.Second),
		demo.Key("ctrl+t"),
		demo.Wait(1 * time.Second),
		demo.Key("ctrl+t"),
		demo.Wait(2 * time.Second),
	},
}

// All returns all built-in scenarios.
func All() []*demo.Scenario {
	return []*demo.Scenario{
		Basic,
		History,
		Themes,
	}
}

// Get returns a scenario by name, or nil if not found.
func Get(name string) *demo.Scenario {
	for _, s := range All() {
		if s.Name == name {
			return s
		}
	}
	return nil
}
