package puzzle

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Метрики движка. Регистрируются один раз на процесс;
// MetricsExporter шины публикует их вместе со своими по /metrics.
var (
	metricMoves = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puzzle",
		Name:      "moves_total",
		Help:      "Число начатых перемещений фигур.",
	})
	metricSteps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puzzle",
		Name:      "steps_total",
		Help:      "Число зафиксированных клеточных шагов.",
	})
	metricReveals = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puzzle",
		Name:      "reveals_total",
		Help:      "Число продвижений погребённых элементов на активный слой.",
	})
	metricExits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puzzle",
		Name:      "exits_total",
		Help:      "Число фигур, покинувших доску через выход.",
	})
	metricCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puzzle",
		Name:      "completed_total",
		Help:      "Число решённых головоломок за процесс.",
	})
	metricPathExpansions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "puzzle",
		Name:      "path_expansions_total",
		Help:      "Суммарное число раскрытий узлов поиска пути.",
	})
	metricBlocksRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "puzzle",
		Name:      "blocks_remaining",
		Help:      "Подвижных фигур на доске в текущей сессии.",
	})
)

func init() {
	prometheus.MustRegister(
		metricMoves,
		metricSteps,
		metricReveals,
		metricExits,
		metricCompleted,
		metricPathExpansions,
		metricBlocksRemaining,
	)
}
