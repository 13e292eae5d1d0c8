package chat

import (
	"context"
	"strings"
	"time"
)

const (
	// SummarizeCommand is the case-insensitive prefix that asks for a channel summary.
	SummarizeCommand = "/summarize"

	// SummaryBotName is the author shown on broadcast summaries.
	SummaryBotName = "Summary Bot"

	// ChatbotName is the author shown on bot replies when the store has no name for the bot.
	ChatbotName = "Chatbot"

	// chatbotContextSize is how many recent messages accompany a chatbot request.
	chatbotContextSize = 10

	msgNothingToSummarize = "Not enough messages to summarize."
	msgSummaryFallback    = "Could not generate a summary."
	msgChatbotFallback    = "I am having trouble connecting to my brain right now."
)

func isSummarizeCommand(content string) bool {
	return len(content) >= len(SummarizeCommand) && strings.EqualFold(content[:len(SummarizeCommand)], SummarizeCommand)
}

// summarize broadcasts a summary of recent history. The summary itself is not stored.
func (s *Session) summarize(ctx context.Context) {
	recent, err := s.manager.store.RecentMessages(ctx, s.channel.ID, s.manager.config.HistoryLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load messages for summary.")
		s.send(SystemEnvelope(msgSummaryFallback))
		return
	}

	if len(recent) == 0 {
		s.send(SystemEnvelope(msgNothingToSummarize))
		return
	}

	lines := make([]string, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		lines = append(lines, recent[i].AuthorName+": "+recent[i].Content)
	}

	summary := msgSummaryFallback
	if a := s.manager.assistant; a != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.manager.config.AIServiceTimeout)
		text, err := a.Summarize(callCtx, strings.Join(lines, "\n"))
		cancel()
		s.manager.recorder.AssistantCall("summarize", err)

		if err != nil {
			s.logger.Warn().Err(err).Msg("Summarize call failed, using fallback.")
		} else if text = strings.TrimSpace(text); text != "" {
			summary = text
		}
	}

	s.manager.registry.Broadcast(s.channel.ID, MessageEnvelope(Message{
		ChannelID:  s.channel.ID,
		AuthorName: SummaryBotName,
		Content:    summary,
		SentAt:     time.Now(),
	}), "")
}

// converse stores the user's message, asks the assistant for a reply in the context of the
// recent conversation, and stores and broadcasts the reply as the bot user.
func (s *Session) converse(ctx context.Context, content string) {
	botID := s.manager.config.ChatbotUserID

	turn := ChatTurn{Text: content}
	recent, err := s.manager.store.RecentMessages(ctx, s.channel.ID, chatbotContextSize)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load chatbot context, replying without it.")
	}
	for i := len(recent) - 1; i >= 0; i-- {
		switch recent[i].AuthorID {
		case s.identity.ID:
			turn.PastUserInputs = append(turn.PastUserInputs, recent[i].Content)
		case botID:
			turn.GeneratedResponses = append(turn.GeneratedResponses, recent[i].Content)
		}
	}

	if _, ok := s.post(ctx, s.identity.ID, s.identity.Name, content); !ok {
		return
	}

	reply := msgChatbotFallback
	if a := s.manager.assistant; a != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.manager.config.AIServiceTimeout)
		text, err := a.Reply(callCtx, turn)
		cancel()
		s.manager.recorder.AssistantCall("chat", err)

		if err != nil {
			s.logger.Warn().Err(err).Msg("Chatbot call failed, using fallback.")
		} else if text = strings.TrimSpace(text); text != "" {
			reply = text
		}
	}

	s.post(ctx, botID, ChatbotName, reply)
}
