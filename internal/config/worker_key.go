package config

type WorkerKeyStruct struct {
	PersistCompletionsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistCompletionsQueue: "persist_completions_queue",
}
