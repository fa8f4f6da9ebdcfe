package main

import (
	"flag"
	"webpay/config"
	"webpay/internal"
	"webpay/services"
)

func main() {

	logger := internal.NewLogger("internal", false, nil)

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	logger.Info("using config file: " + *configPath)
	conf, err := config.GetConfig(*configPath)
	if err != nil {
		logger.Error("boot", err)
		return
	}
	if err = conf.Gateway.Validate(); err != nil {
		logger.Error("gateway config", err)
		return
	}

	var database services.Database
	if conf.Mongo.Enabled {
		mongo, err := internal.NewMongoClient(conf)
		if err != nil {
			logger.Error("mongo client", err)
			return
		}
		database = mongo
		logger.Info("mongo client initialized")
	}

	keys := internal.NewFileKeyStore(&conf.Gateway)
	// load both keys at startup so broken key material stops the service here
	if _, err = keys.MerchantPrivateKey(); err != nil {
		logger.Error("keys", err)
		return
	}
	if _, err = keys.GatewayPublicKey(); err != nil {
		logger.Error("keys", err)
		return
	}

	payments := internal.NewPayments(
		internal.NewRequestBuilder(&conf.Gateway, keys),
		internal.NewResponseVerifier(&conf.Gateway, keys),
	)
	payments.SetLogger(internal.NewLogger("payments", conf.IsDebug, database))
	payments.SetDatabase(database)

	server := internal.NewServer(conf)
	server.SetLogger(internal.NewLogger("server", conf.IsDebug, database))
	server.SetPaymentsService(payments)

	err = server.Start()
	if err != nil {
		logger.Error("server start", err)
		return
	}

}
