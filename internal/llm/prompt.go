package llm

import (
	"context"
	"strings"
)

// SystemPrompt tells the model to answer in prose or with a bare SQL statement.
// The reply format downstream code branches on is defined here and nowhere else.
var SystemPrompt = strings.Join([]string{
	"You are a customer support assistant for a retail analytics platform.",
	"- For general questions or natural language queries, provide clear and relevant answers.",
	"- When a query involves sales data, inventory, or products, create the SQL query for that task and return it.",
	"  Structure the SQL query so it doesn't contain any irrelevant characters before the statement.",
	"- If no SQL query is needed, simply respond with relevant information based on the user's input. Don't pass any SQL statements after it.",
	"- SQL database has the following columns: ProductID, ProductName, Category, Price, StockQuantity, SalesLastMonth, Description.",
}, "\n")

// Ask sends the system prompt and question to c and returns the completion text.
// Provider errors are returned unchanged.
func Ask(ctx context.Context, c Client, question string) (string, error) {
	resp, err := c.Generate(ctx, []Message{
		{Role: RoleSystem, Content: SystemPrompt},
		{Role: RoleUser, Content: question},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
