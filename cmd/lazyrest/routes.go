package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lazyrest/lazyrest/metadata"
	"github.com/lazyrest/lazyrest/router"
	"github.com/lazyrest/lazyrest/store"
	"github.com/lazyrest/lazyrest/store/memstore"
	"github.com/lazyrest/lazyrest/viewset"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the demo route table",
	Long:  "Define the demo blog models and print every route their endpoints expose",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := defineBlog(func(table string, columns []string) store.Queryable {
			return memstore.New().Query()
		})
		if err != nil {
			return err
		}

		r := router.New()
		if err := metadata.RegisterGroup(demoGroup, r); err != nil {
			return err
		}

		headerColor := color.New(color.FgCyan, color.Bold)
		resourceColor := color.New(color.FgGreen, color.Bold)

		headerColor.Printf("Registered resources (%d)\n", len(r.Routes()))
		for _, def := range metadata.Group(demoGroup) {
			h, ok := metadata.Of(def)
			if !ok {
				continue
			}
			vs, err := h.Viewset()
			if err != nil {
				return err
			}

			resourceColor.Printf("\n/%s", vs.URI())
			if vs.ReadOnly() {
				fmt.Print("  (read-only)")
			}
			if h.Abstract() {
				fmt.Print("  (abstract)")
			}
			fmt.Println()

			printRoute("GET", "/")
			printRoute("GET", "/{id}")
			if !vs.ReadOnly() {
				printRoute("POST", "/")
				printRoute("PUT", "/{id}")
				printRoute("PATCH", "/{id}")
				printRoute("DELETE", "/{id}")
			}
			for _, a := range vs.Actions() {
				printRoute(actionMethods(a), actionPath(a))
			}
		}
		return nil
	},
}

func printRoute(methods, path string) {
	fmt.Printf("  %-12s %s\n", methods, path)
}

func actionMethods(a viewset.Action) string {
	if len(a.Methods) == 0 {
		return "GET"
	}
	return strings.Join(a.Methods, ",")
}

func actionPath(a viewset.Action) string {
	if a.Detail {
		return "/{id}/" + a.Name
	}
	return "/" + a.Name
}
