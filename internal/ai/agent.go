package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/database"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/fuel"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers a director's question about the business, letting the
// model call into the approval queues, revenue figures and fuel variance.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the business insights assistant for a multi-department station (fuel, supermarket, restaurant).

RULES:
1. APPROVALS: If the user asks what is waiting for approval, call 'pending_approvals' and summarize per collection.
2. REVENUE: If the user asks about sales or revenue, call 'department_revenue' with a date range (and department if they named one).
3. FUEL: If the user asks about fuel losses, variance or tank levels, call 'fuel_variance'.
4. Answer with the numbers you got back. Do NOT invent figures.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "pending_approvals",
					Description: "Count the sales, expenses, purchase orders and fuel entries still waiting on an approval stage.",
				},
				{
					Name:        "department_revenue",
					Description: "Get fully-approved sales revenue for a date range, optionally for one department (fuel, supermarket, restaurant).",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
							"department": {Type: genai.TypeString, Description: "Optional department filter"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "fuel_variance",
					Description: "Get the current fuel reconciliation per fuel type: liters sold, tank level, expected remaining and variance.",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "pending_approvals":
				return executePendingApprovals(ctx, session), nil
			case "department_revenue":
				return executeDepartmentRevenue(ctx, session, funcCall), nil
			case "fuel_variance":
				return executeFuelVariance(ctx, session), nil
			}
		}
	}

	return printResponse(resp), nil
}

func executePendingApprovals(ctx context.Context, session *genai.ChatSession) string {
	counts, err := database.CountPendingApprovals()
	if err != nil {
		return "Error reading the approval queues."
	}

	resp := map[string]interface{}{}
	for k, v := range counts {
		resp[k] = v
	}

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "pending_approvals",
		Response: resp,
	})
	if err != nil {
		return "Error summarizing the approval queues."
	}
	return printResponse(finalResp)
}

func executeDepartmentRevenue(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)
	department, _ := args["department"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.GetRevenue(department, start, end)
	if err != nil {
		return "Error calculating revenue."
	}

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "department_revenue",
		Response: map[string]interface{}{
			"revenue":     report.TotalRevenue,
			"sales_count": report.TotalCount,
			"department":  department,
		},
	})
	if err != nil {
		return "Error summarizing revenue."
	}
	return printResponse(finalResp)
}

func executeFuelVariance(ctx context.Context, session *genai.ChatSession) string {
	var stocks []models.InitialStock
	if err := database.DB.Find(&stocks).Error; err != nil {
		return "Error reading fuel stock."
	}
	var rows []models.FuelReading
	if err := database.DB.Find(&rows).Error; err != nil {
		return "Error reading pump readings."
	}

	var openings, closings []fuel.Reading
	for _, r := range rows {
		fr := fuel.Reading{PumpNumber: r.PumpNumber, FuelType: r.FuelType, Date: r.ReadingDate, MeterReading: r.MeterReading}
		if r.Kind == "opening" {
			openings = append(openings, fr)
		} else {
			closings = append(closings, fr)
		}
	}
	pairs := fuel.MatchPairs(openings, closings)

	now := time.Now()
	var out []fuel.Report
	for _, s := range stocks {
		var tank models.FuelTank
		price, threshold := 0.0, 0.0
		if database.DB.Where("fuel_type = ?", s.FuelType).First(&tank).Error == nil {
			price = tank.PricePerLiter
			threshold = tank.LowStockThreshold
		}
		out = append(out, fuel.Reconcile(fuel.Stock{
			FuelType:     s.FuelType,
			Liters:       s.Liters,
			DeliveryDate: s.DeliveryDate,
		}, pairs, price, fuel.DefaultEvaporationRate, threshold, now))
	}

	jsonBytes, _ := json.Marshal(out)
	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "fuel_variance",
		Response: map[string]interface{}{"reconciliation": string(jsonBytes)},
	})
	if err != nil {
		return "Error summarizing fuel variance."
	}
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
