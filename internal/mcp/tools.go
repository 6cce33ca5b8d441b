package mcp

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"oddrafter/internal/drafter"
)

const (
	ToolDraftClause  = "draft_docx_od"
	ToolAddLineItem  = "add_line_item"
	ToolListVersions = "list_od_versions"
	ToolListClauses  = "list_od_clauses"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(ToolDraftClause,
			mcp.WithDescription("Append a legal clause to the latest version of the OD."),
			mcp.WithString("quote_number",
				mcp.Required(),
				mcp.Description("The ID of the quote"),
			),
			mcp.WithString("clause_name",
				mcp.Required(),
				mcp.Description("Exact name of the clause"),
			),
		),
		s.handleDraftClause,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolAddLineItem,
			mcp.WithDescription("Add a row to the pricing table in the latest OD version."),
			mcp.WithString("quote_number",
				mcp.Required(),
				mcp.Description("The ID of the quote"),
			),
			mcp.WithString("item_name", mcp.Description("Name of service")),
			mcp.WithString("description", mcp.Description("Description")),
			mcp.WithString("price", mcp.Description("Price (e.g. '$500.00')")),
		),
		s.handleAddLineItem,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolListVersions,
			mcp.WithDescription("List every stored version of an OD, oldest first."),
			mcp.WithString("quote_number",
				mcp.Required(),
				mcp.Description("The ID of the quote"),
			),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleListVersions,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(ToolListClauses,
			mcp.WithDescription("List the clause names accepted by draft_docx_od."),
			mcp.WithReadOnlyHintAnnotation(true),
		),
		s.handleListClauses,
	)
}

func (s *Server) handleDraftClause(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	quote, err := request.RequireString("quote_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	clauseName, err := request.RequireString("clause_name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.logger.Debug("Tool called", "tool", ToolDraftClause, "quote", quote, "clause", clauseName)

	res, err := s.drafter.AppendClause(ctx, quote, clauseName, s.notify)
	if err != nil {
		return mcp.NewToolResultError(errorMessage(err)), nil
	}

	texts, isError := clauseMessages(quote, res)
	result := &mcp.CallToolResult{IsError: isError}
	for _, text := range texts {
		result.Content = append(result.Content, mcp.NewTextContent(text))
	}
	return result, nil
}

func (s *Server) handleAddLineItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	quote, err := request.RequireString("quote_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item := drafter.LineItem{
		ItemName:    request.GetString("item_name", ""),
		Description: request.GetString("description", ""),
		Price:       request.GetString("price", ""),
	}

	s.logger.Debug("Tool called", "tool", ToolAddLineItem, "quote", quote, "item", item.ItemName)

	res, err := s.drafter.AddLineItem(ctx, quote, item, s.notify)
	if err != nil {
		return mcp.NewToolResultText(errorMessage(err)), nil
	}
	return mcp.NewToolResultText(lineItemMessage(quote, res)), nil
}

func (s *Server) handleListVersions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	quote, err := request.RequireString("quote_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	list, err := s.drafter.Versions(ctx, quote)
	if err != nil {
		return mcp.NewToolResultError(errorMessage(err)), nil
	}
	return mcp.NewToolResultText(versionsMessage(quote, list, s.drafter.PublicURL)), nil
}

func (s *Server) handleListClauses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lib, err := s.drafter.Clauses(ctx)
	if err != nil {
		return mcp.NewToolResultError(errorMessage(err)), nil
	}
	return mcp.NewToolResultText(clausesMessage(lib.Titles())), nil
}

// notify forwards drafter progress to the calling client as an info log
// message. Outside a client session it only logs locally.
func (s *Server) notify(ctx context.Context, message string) {
	s.logger.Info(message)

	srv := server.ServerFromContext(ctx)
	if srv == nil {
		return
	}
	err := srv.SendNotificationToClient(ctx, "notifications/message", map[string]any{
		"level":  "info",
		"logger": ServerName,
		"data":   message,
	})
	if err != nil {
		s.logger.Debug("Failed to send progress notification", "error", err)
		return
	}
	if sent, ok := ctx.Value(notifiedKey{}).(*atomic.Bool); ok {
		sent.Store(true)
	}
}

const (
	notificationFlushTimeout = 500 * time.Millisecond
	// time for the stream writer to take the response lock after it has
	// dequeued the last notification
	notificationFlushGrace = 5 * time.Millisecond
)

type notifiedKey struct{}

// flushNotifications holds a tool result back until the progress
// notifications sent during the call have left the session queue. The
// streamable HTTP transport writes queued notifications from a separate
// goroutine and drops whatever is still queued once the result is written.
func flushNotifications(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sent := new(atomic.Bool)
		res, err := next(context.WithValue(ctx, notifiedKey{}, sent), request)
		if sent.Load() {
			waitForDrain(ctx, server.ClientSessionFromContext(ctx))
		}
		return res, err
	}
}

// waitForDrain blocks until session's notification queue is empty, ctx is
// done or notificationFlushTimeout passes.
func waitForDrain(ctx context.Context, session server.ClientSession) {
	if session == nil {
		return
	}
	queue := session.NotificationChannel()

	deadline := time.NewTimer(notificationFlushTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			return
		case <-tick.C:
		}
	}

	select {
	case <-ctx.Done():
	case <-time.After(notificationFlushGrace):
	}
}
