package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// List prints the caller's todos, one per line, with a done marker.
func (a *App) List(ctx context.Context) error {
	todos, err := a.api.ListTodos(ctx, a.token)
	if err != nil {
		log.Printf("Error listing todos: %s", err.Error())
		return err
	}

	if len(todos) == 0 {
		printlnFn("No todos yet")
		return nil
	}

	for _, t := range todos {
		mark := " "
		if t.Done {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %s  %s", mark, t.ID, t.Title)
		if t.Description != "" {
			line += "  (" + t.Description + ")"
		}
		printlnFn(line)
	}

	return nil
}

// Add prompts for a title and description and creates a todo.
func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}

	description, err := getSimpleText(a.reader, "Enter description (optional)", os.Stdout)
	if err != nil {
		return err
	}

	todo, err := a.api.AddTodo(ctx, a.token, title, description)
	if err != nil {
		log.Printf("Error adding todo: %s", err.Error())
		return err
	}

	printlnFn("Added " + todo.ID)
	return nil
}

// Toggle prompts for a todo id and flips its done flag.
func (a *App) Toggle(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter todo id", os.Stdout)
	if err != nil {
		return err
	}

	todo, err := a.api.ToggleTodo(ctx, a.token, id)
	if err != nil {
		log.Printf("Error toggling todo: %s", err.Error())
		return err
	}

	state := "pending"
	if todo.Done {
		state = "done"
	}
	printlnFn(fmt.Sprintf("%s is now %s", todo.ID, state))
	return nil
}

// Delete prompts for a todo id and deletes it.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter todo id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.DeleteTodo(ctx, a.token, id); err != nil {
		log.Printf("Error deleting todo: %s", err.Error())
		return err
	}

	printlnFn("Deleted")
	return nil
}
