package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liuzenghui2007/extract-images/internal/document"
	"github.com/liuzenghui2007/extract-images/internal/pipeline"
)

var listCmd = &cobra.Command{
	Use:   "list <pdf>",
	Short: "Print one diagnostic line per image without writing anything",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, args []string) error {
	doc, err := document.Open(args[0])
	if err != nil {
		return err
	}
	logVerbose("%d objects", len(doc.Objects()))

	set, err := pipeline.Load(doc)
	if err != nil {
		return err
	}
	for _, d := range set.Images() {
		fmt.Println(pipeline.Describe(d))
	}
	logVerbose("%d images, %d would be written", set.Len(), len(set.Emittable()))
	return nil
}
