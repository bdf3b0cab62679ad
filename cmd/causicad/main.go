package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/project-causica/causica/cmd/causicad/config"
	"github.com/project-causica/causica/pkg/condaenv"
	"github.com/project-causica/causica/pkg/registry"
	"github.com/project-causica/causica/pkg/server"
	"github.com/project-causica/causica/pkg/store"
	"github.com/project-causica/causica/pkg/store/model"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		logrus.Warnf("could not load .env file, relying on env vars")
	}

	config, err := config.Environ()
	if err != nil {
		logger := logrus.WithError(err)
		logger.Fatalln("main: invalid configuration")
	}

	initLogging(config)

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		fmt.Println(config.String())
	}

	store := store.New(config.Database.Driver, config.Database.Config)

	changed, err := registryChanged(store, config.Registry.CondaURL)
	if err != nil {
		logrus.Errorln(err)
		logrus.Fatalln("main: cannot access store")
	}
	if changed {
		logrus.Warnf("conda registry changed to %s, stored resolutions were produced against another registry", config.Registry.CondaURL)
	}

	policy := condaenv.DefaultPolicy()
	if config.PolicyPath != "" {
		policy, err = condaenv.LoadPolicy(config.PolicyPath)
		if err != nil {
			logrus.Errorln(err)
			logrus.Fatalln("main: cannot load policy")
		}
	}

	resolver := registry.NewResolver(config.Registry.CondaURL, config.Registry.PyPIURL)
	resolver.SkipGit = config.Registry.SkipGit

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	metricsRouter := chi.NewRouter()
	metricsRouter.Get("/metrics", promhttp.Handler().ServeHTTP)
	go http.ListenAndServe(config.MetricsHost, metricsRouter)

	r := server.SetupRouter(config, store, resolver, policy)
	go func() {
		err = http.ListenAndServe(config.Host, r)
		if err != nil {
			panic(err)
		}
	}()
	logrus.Infof("listening on %s", config.Host)

	<-stopCh
	logrus.Info("Stopping.")
}

// registryChanged records the conda registry URL in the database and
// tells whether it differs from the one the stored resolutions used.
func registryChanged(db *store.Store, condaURL string) (bool, error) {
	stored, err := db.KeyValue(model.RegistryCondaURLKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, db.SaveKeyValue(&model.KeyValue{
				Key:   model.RegistryCondaURLKey,
				Value: condaURL,
			})
		}
		return false, err
	}

	if stored.Value == condaURL {
		return false, nil
	}

	stored.Value = condaURL
	return true, db.SaveKeyValue(stored)
}

// helper function configures the logging.
func initLogging(c *config.Config) {
	if c.Logging.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if c.Logging.Trace {
		logrus.SetLevel(logrus.TraceLevel)
	}
}
