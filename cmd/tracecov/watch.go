// Copyright The Tracecov Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"tracecov.dev/pkg/coverage"
	"tracecov.dev/pkg/covz"
	"tracecov.dev/pkg/log"
	"tracecov.dev/pkg/tracewatch"
)

func watchCmd() *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "watch <trace-file>",
		Short: "Follow a live trace file, serving coverage state over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := coverage.New()

			topic := covz.NewTopic()
			eng.AddObserver(topic)

			feeder, err := tracewatch.New(args[0], eng)
			if err != nil {
				return err
			}

			router := mux.NewRouter()
			topic.Register(router)
			go func() {
				log.Infof("serving coverage state on %s", addr)
				if err := http.ListenAndServe(addr, router); err != nil {
					log.Errorf("introspection server: %v", err)
				}
			}()

			go func() {
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
				<-sig
				feeder.Close()
			}()

			feeder.Run()
			return nil
		},
	}

	c.PersistentFlags().StringVar(&addr, "addr", ":9400",
		"Address to serve the coverage introspection endpoints on")

	return c
}
