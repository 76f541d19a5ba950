// Command lsmkv is a thin CLI wrapper around the lsmkv engine: put, get,
// delete, scan, and sync against a directory-backed store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lsmkv"
)

var dbDir string

func main() {
	root := &cobra.Command{
		Use:   "lsmkv",
		Short: "Inspect and drive an lsmkv-backed directory",
	}
	root.PersistentFlags().StringVar(&dbDir, "dir", ".", "store directory")

	root.AddCommand(putCmd(), getCmd(), deleteCmd(), scanCmd(), syncCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openDB() (*lsmkv.DB, error) {
	return lsmkv.Open(dbDir)
}

func putCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "put <key> <value>",
		Short: "Write a key-value pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			return db.Put([]byte(args[0]), []byte(args[1]))
		},
	}
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Read a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			v, ok, err := db.Get([]byte(args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("(absent)")
				return nil
			}
			fmt.Println(string(v))
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			return db.Delete([]byte(args[0]))
		},
	}
}

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Flush the active memtable into a new L0 SSTable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			return db.Sync()
		},
	}
}

func scanCmd() *cobra.Command {
	var lower, upper string
	var lowerExcl, upperExcl bool

	c := &cobra.Command{
		Use:   "scan",
		Short: "Scan a key range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			lo := parseBound(lower, lowerExcl)
			hi := parseBound(upper, upperExcl)
			cur, err := db.Scan(lo, hi)
			if err != nil {
				return err
			}
			for cur.IsValid() {
				fmt.Printf("%s\t%s\n", cur.Key(), cur.Value())
				if err := cur.Next(); err != nil {
					return err
				}
			}
			return nil
		},
	}
	c.Flags().StringVar(&lower, "lower", "", "lower bound key (empty = unbounded)")
	c.Flags().StringVar(&upper, "upper", "", "upper bound key (empty = unbounded)")
	c.Flags().BoolVar(&lowerExcl, "lower-excl", false, "treat lower bound as exclusive")
	c.Flags().BoolVar(&upperExcl, "upper-excl", false, "treat upper bound as exclusive")
	return c
}

func parseBound(key string, excl bool) lsmkv.Bound {
	if key == "" {
		return lsmkv.Bound{}
	}
	kind := lsmkv.Included
	if excl {
		kind = lsmkv.Excluded
	}
	return lsmkv.Bound{Kind: kind, Key: []byte(key)}
}
