// Command seed inserts a fixed set of demo dogs.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"doggy-rescue/internal/app"
	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/core/config"
	"doggy-rescue/internal/core/logger"
	"doggy-rescue/internal/service"
)

type demoDog struct {
	name, sex, breed, description string
	age, weight                   string
	kids, pets                    bool
}

var demoDogs = []demoDog{
	{"Bella", "female", "Labrador Retriever", "gentle", "3", "27.5", true, true},
	{"Max", "male", "German Shepherd", "loyal", "5", "34", true, false},
	{"Luna", "female", "Border Collie", "energetic", "2", "18.2", true, true},
	{"Charlie", "male", "Beagle", "curious", "4", "11", true, true},
	{"Lucy", "female", "Dachshund", "stubborn", "7", "8.4", false, true},
	{"Cooper", "male", "Boxer", "playful", "1", "25", true, false},
	{"Daisy", "female", "Poodle", "clever", "6", "20.1", true, true},
	{"Rocky", "male", "Rottweiler", "protective", "8", "45", false, false},
	{"Molly", "female", "Shih Tzu", "calm", "9", "6.3", true, true},
	{"Buddy", "male", "Golden Retriever", "friendly", "2", "30", true, true},
	{"Sadie", "female", "Husky", "vocal", "3", "22.7", true, false},
	{"Tucker", "male", "Bulldog", "lazy", "5", "23", true, true},
	{"Maggie", "female", "Corgi", "cheerful", "4", "12.5", true, true},
	{"Bear", "male", "Mastiff", "sleepy", "6", "70", false, true},
	{"Zoe", "female", "Greyhound", "shy", "10", "29.9", true, true},
	{"Duke", "male", "Doberman", "alert", "3", "38", false, false},
}

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "config file")
	flag.Parse()

	cfg := config.Load(*cfgPath)
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	defer a.Close(ctx)

	for _, d := range demoDogs {
		in := service.DogInput{
			Name:        &d.name,
			Age:         &d.age,
			Weight:      &d.weight,
			Sex:         &d.sex,
			Breed:       &d.breed,
			Description: &d.description,
		}
		in.Flags.SuitableForKids = d.kids
		in.Flags.SuitableForOtherPets = d.pets
		dog, err := a.Catalog.Create(ctx, auth.System(), in)
		if err != nil {
			log.Fatal("seed dog", zap.String("name", d.name), zap.Error(err))
		}
		log.Info("dog seeded", zap.String("id", dog.ID), zap.String("name", dog.Name))
	}
	log.Info("seed done", zap.Int("count", len(demoDogs)))
}
