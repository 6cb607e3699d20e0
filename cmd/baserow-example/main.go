// Command baserow-example demonstrates a basic workflow against a table:
// connect, inspect the schema, add a row, filter for it, then clean up.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-baserow/baserow"
)

func main() {
	apiURL := os.Getenv("BASEROW_URL")
	if apiURL == "" {
		apiURL = "https://api.baserow.io"
	}
	token := os.Getenv("BASEROW_TOKEN")
	if token == "" {
		log.Fatal("BASEROW_TOKEN is required")
	}
	tableID, err := strconv.Atoi(os.Getenv("BASEROW_TABLE_ID"))
	if err != nil {
		log.Fatalf("BASEROW_TABLE_ID must be a positive integer: %v", err)
	}

	client := baserow.NewClient(apiURL, token,
		baserow.WithTimeout(30*time.Second),
		baserow.WithLogger(baserow.NewLogger(os.Stderr)),
	)
	table := client.GetTable(tableID)
	ctx := context.Background()

	fmt.Println("Fetching table schema...")
	fields, err := table.Fields(ctx)
	if err != nil {
		log.Fatalf("failed to fetch schema: %v", err)
	}
	fmt.Printf("Fields: %s\n", fields.Names())

	primary, err := fields.Primary()
	if err != nil {
		log.Fatalf("failed to find primary field: %v", err)
	}

	fmt.Printf("\nAdding a row (%s = example-%d)...\n", primary.Name(), time.Now().Unix())
	row, err := table.AddRow(ctx, map[string]any{
		primary.Name(): fmt.Sprintf("example-%d", time.Now().Unix()),
	})
	if err != nil {
		log.Fatalf("failed to add row: %v", err)
	}
	fmt.Printf("Added row %d\n", row.ID())

	fmt.Println("\nFiltering rows...")
	filter, err := baserow.NewFilter(primary.Name(), "contains", "example-")
	if err != nil {
		log.Fatalf("failed to build filter: %v", err)
	}
	rows, err := table.GetRows(ctx, baserow.RowQuery{Filters: []baserow.Filter{filter}})
	if err != nil {
		log.Fatalf("failed to list rows: %v", err)
	}
	fmt.Printf("Matched %d rows\n", len(rows))

	fmt.Println("\nCleaning up...")
	if err := row.Delete(ctx); err != nil {
		log.Fatalf("failed to delete row: %v", err)
	}
	fmt.Println("Row deleted successfully")
}
